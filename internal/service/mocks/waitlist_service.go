package mocks

import (
	"context"

	"waitlist_ledger/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockWaitlistService struct {
	mock.Mock
}

func (m *MockWaitlistService) Join(ctx context.Context, signup *model.Signup) (*model.JoinResult, error) {
	args := m.Called(ctx, signup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JoinResult), args.Error(1)
}

func (m *MockWaitlistService) GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LeaderboardEntry), args.Error(1)
}

func (m *MockWaitlistService) GetStatsByCode(ctx context.Context, code string) (*model.EntryStats, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EntryStats), args.Error(1)
}

func (m *MockWaitlistService) SearchByEmail(ctx context.Context, email string) (*model.EntrySummary, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EntrySummary), args.Error(1)
}

func (m *MockWaitlistService) ListEntries(ctx context.Context) ([]*model.WaitlistEntry, int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.WaitlistEntry), args.Int(1), args.Error(2)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"waitlist_ledger/internal/model"
	"waitlist_ledger/internal/repository"
	"waitlist_ledger/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.LedgerEvent
}

func (p *recordingPublisher) Publish(event model.LedgerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []model.LedgerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.LedgerEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var testWallet = "0x" + strings.Repeat("A", 40)

func newTestService(repo *mocks.MockWaitlistRepository, publishers ...EventPublisher) *WaitlistService {
	codes := NewCodeGenerator(CodeConfig{})
	return NewWaitlistService(repo, codes, 0, publishers...)
}

// expectFreshSignup wires the calls every successful Join makes up to the insert.
func expectFreshSignup(repo *mocks.MockWaitlistRepository, email string) {
	repo.On("GetEntryByEmail", mock.Anything, email).
		Return(nil, repository.ErrNotFound).Once()
	repo.On("ReferralCodeExists", mock.Anything, mock.AnythingOfType("string")).
		Return(false, nil)
}

func TestWaitlistService_Join_InitialPoints(t *testing.T) {
	tests := []struct {
		name           string
		signup         *model.Signup
		expectedPoints int
		expectedSplit  model.PointsBreakdown
	}{
		{
			name:           "Email only",
			signup:         &model.Signup{Email: "a@x.com"},
			expectedPoints: 10,
			expectedSplit:  model.PointsBreakdown{Base: 10},
		},
		{
			name:           "Email and wallet",
			signup:         &model.Signup{Email: "a@x.com", WalletAddress: testWallet},
			expectedPoints: 15,
			expectedSplit:  model.PointsBreakdown{Base: 10, Wallet: 5},
		},
		{
			name:           "Email and handle",
			signup:         &model.Signup{Email: "a@x.com", TwitterHandle: "bob"},
			expectedPoints: 15,
			expectedSplit:  model.PointsBreakdown{Base: 10, Twitter: 5},
		},
		{
			name:           "Email, wallet and handle",
			signup:         &model.Signup{Email: "a@x.com", WalletAddress: testWallet, TwitterHandle: "bob"},
			expectedPoints: 20,
			expectedSplit:  model.PointsBreakdown{Base: 10, Wallet: 5, Twitter: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}
			expectFreshSignup(mockRepo, "a@x.com")
			if tt.signup.WalletAddress != "" {
				mockRepo.On("WalletAddressExists", mock.Anything, strings.ToLower(testWallet)).Return(false, nil)
			}
			if tt.signup.TwitterHandle != "" {
				mockRepo.On("TwitterHandleExists", mock.Anything, "bob").Return(false, nil)
			}
			mockRepo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(entry *model.WaitlistEntry) bool {
				return entry.Points == tt.expectedPoints &&
					entry.TotalReferrals == 0 &&
					entry.Metadata.InitialPointsBreakdown == tt.expectedSplit
			})).Return(nil)
			mockRepo.On("CountEntries", mock.Anything).Return(7, nil)

			result, err := newTestService(mockRepo).Join(context.Background(), tt.signup)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPoints, result.Points)
			assert.Equal(t, tt.expectedPoints, result.PointsEarned)
			assert.Equal(t, 7, result.Position)
			assert.Len(t, result.ReferralCode, DefaultCodeLength)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWaitlistService_Join_NormalizesIdentifiers(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}
	expectFreshSignup(mockRepo, "a@x.com")
	mockRepo.On("WalletAddressExists", mock.Anything, strings.ToLower(testWallet)).Return(false, nil)
	mockRepo.On("TwitterHandleExists", mock.Anything, "bob").Return(false, nil)

	var stored *model.WaitlistEntry
	mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.WaitlistEntry)
		}).
		Return(nil)
	mockRepo.On("CountEntries", mock.Anything).Return(1, nil)

	result, err := newTestService(mockRepo).Join(context.Background(), &model.Signup{
		Email:         "A@X.com",
		WalletAddress: testWallet,
		TwitterHandle: "@Bob",
		UserAgent:     "test-agent",
		IP:            "10.0.0.1",
		Source:        "direct",
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 20, result.Points)
	assert.Equal(t, "a@x.com", result.Email)
	assert.Equal(t, "a@x.com", stored.Email)
	require.NotNil(t, stored.WalletAddress)
	assert.Equal(t, strings.ToLower(testWallet), *stored.WalletAddress)
	require.NotNil(t, stored.TwitterHandle)
	assert.Equal(t, "bob", *stored.TwitterHandle)
	assert.Nil(t, stored.ReferredBy)
	assert.Equal(t, "test-agent", stored.Metadata.UserAgent)
	assert.Equal(t, "10.0.0.1", stored.Metadata.IP)
	assert.Equal(t, result.ReferralCode, stored.ReferralCode)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", stored.ID.String())
	mockRepo.AssertExpectations(t)
}

func TestWaitlistService_Join_ValidationErrors(t *testing.T) {
	tests := []struct {
		name          string
		signup        *model.Signup
		expectedField string
	}{
		{name: "Empty email", signup: &model.Signup{}, expectedField: FieldEmail},
		{name: "Email without at sign", signup: &model.Signup{Email: "ax.com"}, expectedField: FieldEmail},
		{name: "Short wallet", signup: &model.Signup{Email: "a@x.com", WalletAddress: "0x123"}, expectedField: FieldWalletAddress},
		{name: "Handle too long", signup: &model.Signup{Email: "a@x.com", TwitterHandle: strings.Repeat("b", 16)}, expectedField: FieldTwitterHandle},
		{
			name:          "Wallet checked before handle",
			signup:        &model.Signup{Email: "a@x.com", WalletAddress: "nope", TwitterHandle: "bad-handle"},
			expectedField: FieldWalletAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}

			result, err := newTestService(mockRepo).Join(context.Background(), tt.signup)

			assert.Nil(t, result)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.expectedField, validationErr.Field)
			mockRepo.AssertNotCalled(t, "GetEntryByEmail", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
		})
	}
}

func TestWaitlistService_Join_Conflicts(t *testing.T) {
	tests := []struct {
		name          string
		signup        *model.Signup
		setupMocks    func(mockRepo *mocks.MockWaitlistRepository)
		expectedField string
		expectedCode  string
	}{
		{
			name:   "Existing email returns existing code",
			signup: &model.Signup{Email: "A@x.com"},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").
					Return(&model.WaitlistEntry{Email: "a@x.com", ReferralCode: "ORIG01"}, nil)
			},
			expectedField: FieldEmail,
			expectedCode:  "ORIG01",
		},
		{
			name:   "Existing wallet",
			signup: &model.Signup{Email: "a@x.com", WalletAddress: testWallet},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
				mockRepo.On("WalletAddressExists", mock.Anything, strings.ToLower(testWallet)).Return(true, nil)
			},
			expectedField: FieldWalletAddress,
		},
		{
			name:   "Existing handle",
			signup: &model.Signup{Email: "a@x.com", TwitterHandle: "@Bob"},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
				mockRepo.On("TwitterHandleExists", mock.Anything, "bob").Return(true, nil)
			},
			expectedField: FieldTwitterHandle,
		},
		{
			name:   "Email inserted concurrently",
			signup: &model.Signup{Email: "a@x.com"},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				expectFreshSignup(mockRepo, "a@x.com")
				mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
					Return(fmt.Errorf("failed to insert entry: %w", repository.ErrDuplicateEmail))
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").
					Return(&model.WaitlistEntry{Email: "a@x.com", ReferralCode: "RACE01"}, nil).Once()
			},
			expectedField: FieldEmail,
			expectedCode:  "RACE01",
		},
		{
			name:   "Email inserted concurrently, re-read retried",
			signup: &model.Signup{Email: "a@x.com"},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				expectFreshSignup(mockRepo, "a@x.com")
				mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
					Return(fmt.Errorf("failed to insert entry: %w", repository.ErrDuplicateEmail))
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").Return(nil, assert.AnError).Once()
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").
					Return(&model.WaitlistEntry{Email: "a@x.com", ReferralCode: "RACE02"}, nil).Once()
			},
			expectedField: FieldEmail,
			expectedCode:  "RACE02",
		},
		{
			name:   "Wallet inserted concurrently",
			signup: &model.Signup{Email: "a@x.com", WalletAddress: testWallet},
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				expectFreshSignup(mockRepo, "a@x.com")
				mockRepo.On("WalletAddressExists", mock.Anything, strings.ToLower(testWallet)).Return(false, nil)
				mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
					Return(fmt.Errorf("failed to insert entry: %w", repository.ErrDuplicateWalletAddress))
			},
			expectedField: FieldWalletAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}
			tt.setupMocks(mockRepo)
			publisher := &recordingPublisher{}

			result, err := newTestService(mockRepo, publisher).Join(context.Background(), tt.signup)

			assert.Nil(t, result)
			var conflictErr *ConflictError
			require.ErrorAs(t, err, &conflictErr)
			assert.Equal(t, tt.expectedField, conflictErr.Field)
			assert.Equal(t, tt.expectedCode, conflictErr.ReferralCode)
			assert.Empty(t, publisher.types())
			mockRepo.AssertNotCalled(t, "CreditReferrer", mock.Anything, mock.Anything)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWaitlistService_Join_Referral(t *testing.T) {
	tests := []struct {
		name           string
		creditResult   *model.ReferralCredit
		creditErr      error
		expectedEvents []model.LedgerEventType
	}{
		{
			name:         "Referrer credited",
			creditResult: &model.ReferralCredit{ReferralCode: "REF001", Points: 30, TotalReferrals: 2},
			expectedEvents: []model.LedgerEventType{
				model.LedgerEventReferralCredited,
				model.LedgerEventJoined,
			},
		},
		{
			name:           "Unknown referral code is ignored",
			creditErr:      repository.ErrNotFound,
			expectedEvents: []model.LedgerEventType{model.LedgerEventJoined},
		},
		{
			name:           "Credit failure does not fail the join",
			creditErr:      assert.AnError,
			expectedEvents: []model.LedgerEventType{model.LedgerEventJoined},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}
			publisher := &recordingPublisher{}
			expectFreshSignup(mockRepo, "b@x.com")

			var stored *model.WaitlistEntry
			mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					stored = args.Get(1).(*model.WaitlistEntry)
				}).
				Return(nil)
			mockRepo.On("CreditReferrer", mock.Anything, mock.MatchedBy(func(event *model.ReferralEvent) bool {
				return event.ReferrerCode == "REF001" &&
					event.PointsAwarded == ReferralReward &&
					event.EventType == model.EventTypeSignup &&
					stored != nil && event.RefereeID == stored.ID
			})).Return(tt.creditResult, tt.creditErr)
			mockRepo.On("CountEntries", mock.Anything).Return(2, nil)

			result, err := newTestService(mockRepo, publisher).Join(context.Background(), &model.Signup{
				Email:          "b@x.com",
				ReferredByCode: "ref001",
			})

			require.NoError(t, err)
			assert.Equal(t, 10, result.Points)
			assert.Equal(t, 2, result.Position)
			require.NotNil(t, stored.ReferredBy)
			assert.Equal(t, "REF001", *stored.ReferredBy)
			assert.Equal(t, tt.expectedEvents, publisher.types())
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWaitlistService_Join_ReferralCodeCollisionAtInsert(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}
	expectFreshSignup(mockRepo, "a@x.com")

	var codes []string
	mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			codes = append(codes, args.Get(1).(*model.WaitlistEntry).ReferralCode)
		}).
		Return(fmt.Errorf("failed to insert entry: %w", repository.ErrDuplicateReferralCode)).Once()
	mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			codes = append(codes, args.Get(1).(*model.WaitlistEntry).ReferralCode)
		}).
		Return(nil).Once()
	mockRepo.On("CountEntries", mock.Anything).Return(1, nil)

	result, err := newTestService(mockRepo).Join(context.Background(), &model.Signup{Email: "a@x.com"})

	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, codes[1], result.ReferralCode)
	mockRepo.AssertNumberOfCalls(t, "CreateEntry", 2)
}

func TestWaitlistService_Join_PersistenceErrors(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(mockRepo *mocks.MockWaitlistRepository)
	}{
		{
			name: "Email lookup fails",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").Return(nil, assert.AnError)
			},
		},
		{
			name: "Insert fails",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				expectFreshSignup(mockRepo, "a@x.com")
				mockRepo.On("CreateEntry", mock.Anything, mock.Anything).Return(assert.AnError)
			},
		},
		{
			name: "Concurrent email cannot be re-read",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				expectFreshSignup(mockRepo, "a@x.com")
				mockRepo.On("CreateEntry", mock.Anything, mock.Anything).
					Return(fmt.Errorf("failed to insert entry: %w", repository.ErrDuplicateEmail))
				mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").Return(nil, assert.AnError).Twice()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}
			tt.setupMocks(mockRepo)

			result, err := newTestService(mockRepo).Join(context.Background(), &model.Signup{Email: "a@x.com"})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, assert.AnError)
			var conflictErr *ConflictError
			assert.False(t, errors.As(err, &conflictErr))
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWaitlistService_Join_CountFailsAfterInsert(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}
	publisher := &recordingPublisher{}
	expectFreshSignup(mockRepo, "a@x.com")
	mockRepo.On("CreateEntry", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("CreditReferrer", mock.Anything, mock.Anything).
		Return(&model.ReferralCredit{ReferralCode: "REF001", Points: 20, TotalReferrals: 1}, nil).Once()
	mockRepo.On("CountEntries", mock.Anything).Return(0, assert.AnError)

	result, err := newTestService(mockRepo, publisher).Join(context.Background(), &model.Signup{
		Email:          "a@x.com",
		ReferredByCode: "REF001",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Position)
	assert.NotEmpty(t, result.ReferralCode)
	assert.Equal(t, BasePoints, result.PointsEarned)
	assert.Equal(t, []model.LedgerEventType{
		model.LedgerEventReferralCredited,
		model.LedgerEventJoined,
	}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestWaitlistService_GetStatsByCode(t *testing.T) {
	rank := 3

	tests := []struct {
		name          string
		code          string
		setupMocks    func(mockRepo *mocks.MockWaitlistRepository)
		expected      *model.EntryStats
		expectedError error
	}{
		{
			name: "Known code",
			code: "abc123",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByReferralCode", mock.Anything, "ABC123").
					Return(&model.WaitlistEntry{ReferralCode: "ABC123", Points: 40, TotalReferrals: 3}, nil)
				mockRepo.On("GetRankByReferralCode", mock.Anything, "ABC123").Return(&rank, nil)
			},
			expected: &model.EntryStats{Points: 40, TotalReferrals: 3, Rank: &rank},
		},
		{
			name: "Known code without rank",
			code: "ABC123",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByReferralCode", mock.Anything, "ABC123").
					Return(&model.WaitlistEntry{ReferralCode: "ABC123", Points: 10}, nil)
				mockRepo.On("GetRankByReferralCode", mock.Anything, "ABC123").Return(nil, repository.ErrNotFound)
			},
			expected: &model.EntryStats{Points: 10},
		},
		{
			name: "Never issued code",
			code: "ZZZZZZ",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByReferralCode", mock.Anything, "ZZZZZZ").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrEntryNotFound,
		},
		{
			name: "Rank lookup fails",
			code: "ABC123",
			setupMocks: func(mockRepo *mocks.MockWaitlistRepository) {
				mockRepo.On("GetEntryByReferralCode", mock.Anything, "ABC123").
					Return(&model.WaitlistEntry{ReferralCode: "ABC123"}, nil)
				mockRepo.On("GetRankByReferralCode", mock.Anything, "ABC123").Return(nil, assert.AnError)
			},
			expected: &model.EntryStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWaitlistRepository{}
			tt.setupMocks(mockRepo)

			stats, err := newTestService(mockRepo).GetStatsByCode(context.Background(), tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, stats)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWaitlistService_GetStatsByCode_MissingCode(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}

	_, err := newTestService(mockRepo).GetStatsByCode(context.Background(), "  ")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, FieldReferralCode, validationErr.Field)
}

func TestWaitlistService_SearchByEmail(t *testing.T) {
	joined := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rank := 1

	t.Run("Found", func(t *testing.T) {
		mockRepo := &mocks.MockWaitlistRepository{}
		mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").
			Return(&model.WaitlistEntry{
				Email:          "a@x.com",
				ReferralCode:   "ABC123",
				Points:         20,
				TotalReferrals: 1,
				CreatedAt:      joined,
			}, nil)
		mockRepo.On("GetRankByReferralCode", mock.Anything, "ABC123").Return(&rank, nil)
		mockRepo.On("CountEntries", mock.Anything).Return(42, nil)

		summary, err := newTestService(mockRepo).SearchByEmail(context.Background(), "A@X.COM")

		require.NoError(t, err)
		assert.Equal(t, &model.EntrySummary{
			Email:          "a@x.com",
			Points:         20,
			TotalReferrals: 1,
			ReferralCode:   "ABC123",
			Rank:           &rank,
			Position:       42,
			JoinedDate:     joined,
		}, summary)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rank and count unavailable", func(t *testing.T) {
		mockRepo := &mocks.MockWaitlistRepository{}
		mockRepo.On("GetEntryByEmail", mock.Anything, "a@x.com").
			Return(&model.WaitlistEntry{Email: "a@x.com", ReferralCode: "ABC123", Points: 10, CreatedAt: joined}, nil)
		mockRepo.On("GetRankByReferralCode", mock.Anything, "ABC123").Return(nil, assert.AnError)
		mockRepo.On("CountEntries", mock.Anything).Return(0, assert.AnError)

		summary, err := newTestService(mockRepo).SearchByEmail(context.Background(), "a@x.com")

		require.NoError(t, err)
		assert.Nil(t, summary.Rank)
		assert.Equal(t, 0, summary.Position)
		assert.Equal(t, "ABC123", summary.ReferralCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := &mocks.MockWaitlistRepository{}
		mockRepo.On("GetEntryByEmail", mock.Anything, "nobody@x.com").Return(nil, repository.ErrNotFound)

		_, err := newTestService(mockRepo).SearchByEmail(context.Background(), "nobody@x.com")

		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("Invalid email", func(t *testing.T) {
		mockRepo := &mocks.MockWaitlistRepository{}

		_, err := newTestService(mockRepo).SearchByEmail(context.Background(), "nobody")

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, FieldEmail, validationErr.Field)
		mockRepo.AssertNotCalled(t, "GetEntryByEmail", mock.Anything, mock.Anything)
	})
}

func TestWaitlistService_GetLeaderboard(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}
	entries := []*model.LeaderboardEntry{
		{Rank: 1, ReferralCode: "AAA111", Points: 50, TotalReferrals: 4},
		{Rank: 2, ReferralCode: "BBB222", Points: 20},
	}
	mockRepo.On("GetTopEntries", mock.Anything, DefaultLeaderboardLimit).Return(entries, nil)

	got, err := newTestService(mockRepo).GetLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	mockRepo.AssertExpectations(t)
}

func TestWaitlistService_ListEntries(t *testing.T) {
	mockRepo := &mocks.MockWaitlistRepository{}
	entries := []*model.WaitlistEntry{{Email: "b@x.com"}, {Email: "a@x.com"}}
	mockRepo.On("ListEntries", mock.Anything).Return(entries, nil)

	got, total, err := newTestService(mockRepo).ListEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, entries, got)
}

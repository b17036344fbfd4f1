package service

import (
	"context"
	"errors"

	"waitlist_ledger/internal/model"
)

var (
	ErrEntryNotFound      = errors.New("waitlist entry not found")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique referral code")
)

const (
	FieldEmail         = "email"
	FieldWalletAddress = "walletAddress"
	FieldTwitterHandle = "twitterHandle"
	FieldReferralCode  = "code"
)

// ValidationError is a malformed field the client has to fix before resubmitting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ConflictError reports an identifier that is already registered. For a
// duplicate email ReferralCode holds the existing entry's code.
type ConflictError struct {
	Field        string
	Message      string
	ReferralCode string
}

func (e *ConflictError) Error() string {
	return e.Field + ": " + e.Message
}

type WaitlistServiceI interface {
	Join(ctx context.Context, signup *model.Signup) (*model.JoinResult, error)
	GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error)
	GetStatsByCode(ctx context.Context, code string) (*model.EntryStats, error)
	SearchByEmail(ctx context.Context, email string) (*model.EntrySummary, error)
	ListEntries(ctx context.Context) ([]*model.WaitlistEntry, int, error)
}

type WaitlistRepository interface {
	GetEntryByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error)
	GetEntryByReferralCode(ctx context.Context, code string) (*model.WaitlistEntry, error)
	WalletAddressExists(ctx context.Context, wallet string) (bool, error)
	TwitterHandleExists(ctx context.Context, handle string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	CreateEntry(ctx context.Context, entry *model.WaitlistEntry) error
	CreditReferrer(ctx context.Context, event *model.ReferralEvent) (*model.ReferralCredit, error)
	CountEntries(ctx context.Context) (int, error)
	GetRankByReferralCode(ctx context.Context, code string) (*int, error)
	GetTopEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	ListEntries(ctx context.Context) ([]*model.WaitlistEntry, error)
}

// EventPublisher receives ledger events after the fact. Implementations must not
// block the caller.
type EventPublisher interface {
	Publish(event model.LedgerEvent)
}

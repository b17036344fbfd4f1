package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"waitlist_ledger/internal/metrics"
	"waitlist_ledger/internal/model"
	"waitlist_ledger/internal/repository"
	"waitlist_ledger/pkg/logger"
	"waitlist_ledger/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BasePoints     = 10
	WalletBonus    = 5
	TwitterBonus   = 5
	ReferralReward = 10

	DefaultLeaderboardLimit = 50

	// insertAttempts bounds re-minting when the referral code loses an insert race.
	insertAttempts = 3

	lateEmailReadAttempts = 2
)

// InitialPoints is the signup bonus: base points plus a bonus per linked identity.
func InitialPoints(hasWallet, hasTwitter bool) model.PointsBreakdown {
	b := model.PointsBreakdown{Base: BasePoints}
	if hasWallet {
		b.Wallet = WalletBonus
	}
	if hasTwitter {
		b.Twitter = TwitterBonus
	}
	return b
}

type WaitlistService struct {
	repo             WaitlistRepository
	codes            *CodeGenerator
	publishers       []EventPublisher
	leaderboardLimit int
}

func NewWaitlistService(repo WaitlistRepository, codes *CodeGenerator, leaderboardLimit int, publishers ...EventPublisher) *WaitlistService {
	if leaderboardLimit <= 0 {
		leaderboardLimit = DefaultLeaderboardLimit
	}
	return &WaitlistService{
		repo:             repo,
		codes:            codes,
		publishers:       publishers,
		leaderboardLimit: leaderboardLimit,
	}
}

func (s *WaitlistService) Join(ctx context.Context, signup *model.Signup) (*model.JoinResult, error) {
	start := time.Now()
	result, err := s.join(ctx, signup)
	metrics.ObserveJoin(time.Since(start).Seconds())

	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
	)
	switch {
	case err == nil:
		metrics.IncJoin(metrics.OutcomeJoined)
	case errors.As(err, &validationErr):
		metrics.IncJoin(metrics.OutcomeInvalid)
	case errors.As(err, &conflictErr):
		metrics.IncJoin(metrics.OutcomeConflict)
	case errors.Is(err, ErrCodeSpaceExhausted):
		metrics.IncJoin(metrics.OutcomeExhausted)
	default:
		metrics.IncJoin(metrics.OutcomeError)
	}

	return result, err
}

func (s *WaitlistService) join(ctx context.Context, signup *model.Signup) (*model.JoinResult, error) {
	if err := validateSignup(signup); err != nil {
		return nil, err
	}

	email := validator.NormalizeEmail(signup.Email)
	wallet := validator.NormalizeWalletAddress(signup.WalletAddress)
	handle := validator.NormalizeSocialHandle(signup.TwitterHandle)
	referredBy := validator.NormalizeReferralCode(signup.ReferredByCode)

	existing, err := s.repo.GetEntryByEmail(ctx, email)
	if err == nil {
		return nil, emailConflict(existing.ReferralCode)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if wallet != "" {
		taken, err := s.repo.WalletAddressExists(ctx, wallet)
		if err != nil {
			return nil, fmt.Errorf("failed to check wallet address: %w", err)
		}
		if taken {
			return nil, walletConflict()
		}
	}

	if handle != "" {
		taken, err := s.repo.TwitterHandleExists(ctx, handle)
		if err != nil {
			return nil, fmt.Errorf("failed to check twitter handle: %w", err)
		}
		if taken {
			return nil, handleConflict()
		}
	}

	breakdown := InitialPoints(wallet != "", handle != "")
	now := time.Now().UTC()
	entry := &model.WaitlistEntry{
		Email:          email,
		WalletAddress:  optional(wallet),
		TwitterHandle:  optional(handle),
		ReferredBy:     optional(referredBy),
		Points:         breakdown.Total(),
		TotalReferrals: 0,
		Metadata: model.EntryMetadata{
			UserAgent:              signup.UserAgent,
			IP:                     signup.IP,
			Source:                 signup.Source,
			InitialPointsBreakdown: breakdown,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insert(ctx, entry); err != nil {
		return nil, err
	}

	// The entry is committed; the referral credit and the count must not be
	// abandoned because the client went away.
	ctx = context.WithoutCancel(ctx)

	s.creditReferrer(ctx, entry, referredBy)

	position := s.position(ctx)

	s.publish(model.LedgerEvent{
		Type:         model.LedgerEventJoined,
		ReferralCode: entry.ReferralCode,
		Points:       entry.Points,
		Position:     position,
		At:           now,
	})

	return &model.JoinResult{
		Position:     position,
		ReferralCode: entry.ReferralCode,
		Email:        entry.Email,
		Points:       entry.Points,
		PointsEarned: breakdown.Total(),
	}, nil
}

func validateSignup(signup *model.Signup) error {
	if !validator.IsValidEmail(signup.Email) {
		return &ValidationError{Field: FieldEmail, Message: "Please provide a valid email address"}
	}
	if signup.WalletAddress != "" && !validator.IsValidWalletAddress(signup.WalletAddress) {
		return &ValidationError{Field: FieldWalletAddress, Message: "Please provide a valid Ethereum wallet address"}
	}
	if signup.TwitterHandle != "" && !validator.IsValidSocialHandle(signup.TwitterHandle) {
		return &ValidationError{Field: FieldTwitterHandle, Message: "Please provide a valid Twitter username"}
	}
	return nil
}

// insert mints a code and stores the entry. Unique violations raised by the
// database are the authoritative duplicate check.
func (s *WaitlistService) insert(ctx context.Context, entry *model.WaitlistEntry) error {
	for attempt := 1; ; attempt++ {
		code, err := s.codes.Generate(ctx, s.repo.ReferralCodeExists)
		if err != nil {
			if errors.Is(err, ErrCodeSpaceExhausted) {
				return err
			}
			return fmt.Errorf("failed to generate referral code: %w", err)
		}

		entry.ID = uuid.New()
		entry.ReferralCode = code

		err = s.repo.CreateEntry(ctx, entry)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrDuplicateReferralCode) && attempt < insertAttempts:
			metrics.IncCodeCollision()
			continue
		case errors.Is(err, repository.ErrDuplicateEmail):
			return s.lateEmailConflict(ctx, entry.Email)
		case errors.Is(err, repository.ErrDuplicateWalletAddress):
			return walletConflict()
		case errors.Is(err, repository.ErrDuplicateTwitterHandle):
			return handleConflict()
		case errors.Is(err, repository.ErrDuplicateReferralCode):
			return ErrCodeSpaceExhausted
		default:
			return fmt.Errorf("failed to create entry: %w", err)
		}
	}
}

// lateEmailConflict resolves an email that was inserted concurrently between
// the existence check and our insert.
// The conflict is only reported together with the existing referral code.
func (s *WaitlistService) lateEmailConflict(ctx context.Context, email string) error {
	var err error
	for attempt := 1; attempt <= lateEmailReadAttempts; attempt++ {
		var existing *model.WaitlistEntry
		existing, err = s.repo.GetEntryByEmail(ctx, email)
		if err == nil {
			return emailConflict(existing.ReferralCode)
		}
		logger.Logger().Warn("failed to load concurrently created entry",
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return fmt.Errorf("failed to load existing entry: %w", err)
}

// creditReferrer is best-effort: failures are logged and counted, never returned.
func (s *WaitlistService) creditReferrer(ctx context.Context, referee *model.WaitlistEntry, code string) {
	if code == "" {
		return
	}
	log := logger.Logger()

	event := &model.ReferralEvent{
		ID:            uuid.New(),
		RefereeID:     referee.ID,
		ReferrerCode:  code,
		PointsAwarded: ReferralReward,
		EventType:     model.EventTypeSignup,
		CreatedAt:     time.Now().UTC(),
	}

	credit, err := s.repo.CreditReferrer(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.IncReferralCreditFailure(metrics.CreditUnknownCode)
			log.Info("referral code does not match any entry",
				zap.String("referral_code", code),
				zap.String("referee_id", referee.ID.String()))
			return
		}
		metrics.IncReferralCreditFailure(metrics.CreditError)
		log.Warn("failed to credit referrer",
			zap.String("referral_code", code),
			zap.String("referee_id", referee.ID.String()),
			zap.Error(err))
		return
	}

	metrics.IncReferralCredit()
	s.publish(model.LedgerEvent{
		Type:           model.LedgerEventReferralCredited,
		ReferralCode:   credit.ReferralCode,
		Points:         credit.Points,
		TotalReferrals: credit.TotalReferrals,
		At:             event.CreatedAt,
	})
}

func (s *WaitlistService) publish(event model.LedgerEvent) {
	for _, p := range s.publishers {
		p.Publish(event)
	}
}

func (s *WaitlistService) GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	entries, err := s.repo.GetTopEntries(ctx, s.leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top entries: %w", err)
	}
	return entries, nil
}

func (s *WaitlistService) GetStatsByCode(ctx context.Context, code string) (*model.EntryStats, error) {
	code = validator.NormalizeReferralCode(code)
	if code == "" {
		return nil, &ValidationError{Field: FieldReferralCode, Message: "Referral code required"}
	}

	entry, err := s.repo.GetEntryByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by referral code: %w", err)
	}

	return &model.EntryStats{
		Points:         entry.Points,
		TotalReferrals: entry.TotalReferrals,
		Rank:           s.rank(ctx, entry.ReferralCode),
	}, nil
}

func (s *WaitlistService) SearchByEmail(ctx context.Context, email string) (*model.EntrySummary, error) {
	if !validator.IsValidEmail(email) {
		return nil, &ValidationError{Field: FieldEmail, Message: "Valid email required"}
	}

	entry, err := s.repo.GetEntryByEmail(ctx, validator.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by email: %w", err)
	}

	return &model.EntrySummary{
		Email:          entry.Email,
		Points:         entry.Points,
		TotalReferrals: entry.TotalReferrals,
		ReferralCode:   entry.ReferralCode,
		Rank:           s.rank(ctx, entry.ReferralCode),
		Position:       s.position(ctx),
		JoinedDate:     entry.CreatedAt,
	}, nil
}

// rank is nil when the entry is not ranked or the lookup fails.
func (s *WaitlistService) rank(ctx context.Context, code string) *int {
	rank, err := s.repo.GetRankByReferralCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.IncLookupFailure(metrics.LookupRank)
			logger.Logger().Warn("failed to get rank",
				zap.String("referral_code", code),
				zap.Error(err))
		}
		return nil
	}
	return rank
}

// position is the waitlist size, or 0 when it cannot be counted.
func (s *WaitlistService) position(ctx context.Context) int {
	count, err := s.repo.CountEntries(ctx)
	if err != nil {
		metrics.IncLookupFailure(metrics.LookupPosition)
		logger.Logger().Warn("failed to count entries", zap.Error(err))
		return 0
	}
	return count
}

func (s *WaitlistService) ListEntries(ctx context.Context) ([]*model.WaitlistEntry, int, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, len(entries), nil
}

func emailConflict(code string) *ConflictError {
	return &ConflictError{
		Field:        FieldEmail,
		Message:      "This email is already on the waitlist",
		ReferralCode: code,
	}
}

func walletConflict() *ConflictError {
	return &ConflictError{Field: FieldWalletAddress, Message: "This wallet address is already registered"}
}

func handleConflict() *ConflictError {
	return &ConflictError{Field: FieldTwitterHandle, Message: "This Twitter/X username is already registered"}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"waitlist_ledger/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	entriesTable     = "waitlist_entries"
	eventsTable      = "referral_events"
	leaderboardTable = "leaderboard"
)

var entryColumns = []string{
	"id",
	"email",
	"wallet_address",
	"twitter_handle",
	"referral_code",
	"referred_by",
	"points",
	"total_referrals",
	"metadata",
	"created_at",
	"updated_at",
}

type WaitlistEntry struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	WalletAddress  *string   `db:"wallet_address"`
	TwitterHandle  *string   `db:"twitter_handle"`
	ReferralCode   string    `db:"referral_code"`
	ReferredBy     *string   `db:"referred_by"`
	Points         int       `db:"points"`
	TotalReferrals int       `db:"total_referrals"`
	Metadata       []byte    `db:"metadata"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type leaderboardRow struct {
	Rank           int     `db:"rank"`
	ReferralCode   string  `db:"referral_code"`
	TwitterHandle  *string `db:"twitter_handle"`
	Points         int     `db:"points"`
	TotalReferrals int     `db:"total_referrals"`
}

type creditRow struct {
	ID             uuid.UUID `db:"id"`
	Points         int       `db:"points"`
	TotalReferrals int       `db:"total_referrals"`
}

func (e *WaitlistEntry) toModel() (*model.WaitlistEntry, error) {
	var metadata model.EntryMetadata
	if len(e.Metadata) > 0 {
		if err := json.Unmarshal(e.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata of entry %s: %w", e.ID, err)
		}
	}

	return &model.WaitlistEntry{
		ID:             e.ID,
		Email:          e.Email,
		WalletAddress:  e.WalletAddress,
		TwitterHandle:  e.TwitterHandle,
		ReferralCode:   e.ReferralCode,
		ReferredBy:     e.ReferredBy,
		Points:         e.Points,
		TotalReferrals: e.TotalReferrals,
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}, nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry *model.WaitlistEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode entry metadata: %w", err)
	}

	query, args, err := squirrel.
		Insert(entriesTable).
		SetMap(map[string]interface{}{
			"id":              entry.ID,
			"email":           entry.Email,
			"wallet_address":  entry.WalletAddress,
			"twitter_handle":  entry.TwitterHandle,
			"referral_code":   entry.ReferralCode,
			"referred_by":     entry.ReferredBy,
			"points":          entry.Points,
			"total_referrals": entry.TotalReferrals,
			"metadata":        string(metadata),
			"created_at":      entry.CreatedAt,
			"updated_at":      entry.UpdatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build entry insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", mapInsertError(err))
	}

	return nil
}

func (r *Repository) getEntryBy(ctx context.Context, column, value string) (*model.WaitlistEntry, error) {
	var entry WaitlistEntry
	query, args, err := squirrel.
		Select(entryColumns...).
		From(entriesTable).
		Where(squirrel.Eq{column: value}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &entry, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return entry.toModel()
}

func (r *Repository) GetEntryByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	return r.getEntryBy(ctx, "email", email)
}

func (r *Repository) GetEntryByReferralCode(ctx context.Context, code string) (*model.WaitlistEntry, error) {
	return r.getEntryBy(ctx, "referral_code", code)
}

func (r *Repository) exists(ctx context.Context, column, value string) (bool, error) {
	sub := squirrel.
		Select("1").
		From(entriesTable).
		Where(squirrel.Eq{column: value})

	query, args, err := squirrel.
		Select().
		Column(squirrel.Expr("EXISTS(?)", sub)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var found bool
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}

	return found, nil
}

func (r *Repository) WalletAddressExists(ctx context.Context, wallet string) (bool, error) {
	return r.exists(ctx, "wallet_address", wallet)
}

func (r *Repository) TwitterHandleExists(ctx context.Context, handle string) (bool, error) {
	return r.exists(ctx, "twitter_handle", handle)
}

func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "referral_code", code)
}

// CreditReferrer adds the event's points to the owner of event.ReferrerCode and
// appends the referral event, atomically. ErrNotFound means no entry owns the code.
func (r *Repository) CreditReferrer(ctx context.Context, event *model.ReferralEvent) (*model.ReferralCredit, error) {
	var credit creditRow

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		updateQuery, updateArgs, err := squirrel.
			Update(entriesTable).
			Set("points", squirrel.Expr("points + ?", event.PointsAwarded)).
			Set("total_referrals", squirrel.Expr("total_referrals + 1")).
			Set("updated_at", event.CreatedAt).
			Where(squirrel.Eq{"referral_code": event.ReferrerCode}).
			Suffix("RETURNING id, points, total_referrals").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referrer update query: %w", err)
		}

		err = tx.GetContext(ctx, &credit, updateQuery, updateArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to update referrer: %w", err)
		}

		eventQuery, eventArgs, err := squirrel.
			Insert(eventsTable).
			SetMap(map[string]interface{}{
				"id":             event.ID,
				"referrer_id":    credit.ID,
				"referee_id":     event.RefereeID,
				"referrer_code":  event.ReferrerCode,
				"points_awarded": event.PointsAwarded,
				"event_type":     event.EventType,
				"created_at":     event.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral event insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, eventQuery, eventArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert referral event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	event.ReferrerID = credit.ID

	return &model.ReferralCredit{
		ReferrerID:     credit.ID,
		ReferralCode:   event.ReferrerCode,
		Points:         credit.Points,
		TotalReferrals: credit.TotalReferrals,
	}, nil
}

func (r *Repository) CountEntries(ctx context.Context) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(entriesTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

func (r *Repository) GetRankByReferralCode(ctx context.Context, code string) (*int, error) {
	query, args, err := squirrel.
		Select("rank").
		From(leaderboardTable).
		Where(squirrel.Eq{"referral_code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rank int
	err = r.db.GetContext(ctx, &rank, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	return &rank, nil
}

func (r *Repository) GetTopEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	query, args, err := squirrel.
		Select("rank", "referral_code", "twitter_handle", "points", "total_referrals").
		From(leaderboardTable).
		OrderBy("rank").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []leaderboardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]*model.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = &model.LeaderboardEntry{
			Rank:           row.Rank,
			ReferralCode:   row.ReferralCode,
			TwitterHandle:  row.TwitterHandle,
			Points:         row.Points,
			TotalReferrals: row.TotalReferrals,
		}
	}

	return entries, nil
}

// ListEntries returns every entry, newest first.
func (r *Repository) ListEntries(ctx context.Context) ([]*model.WaitlistEntry, error) {
	query, args, err := squirrel.
		Select(entryColumns...).
		From(entriesTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []WaitlistEntry
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*model.WaitlistEntry, len(rows))
	for i := range rows {
		entry, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}

	return entries, nil
}

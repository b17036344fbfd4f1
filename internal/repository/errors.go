package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

var constraintErrors = map[string]error{
	"waitlist_entries_email_key":          ErrDuplicateEmail,
	"waitlist_entries_wallet_address_key": ErrDuplicateWalletAddress,
	"waitlist_entries_twitter_handle_key": ErrDuplicateTwitterHandle,
	"waitlist_entries_referral_code_key":  ErrDuplicateReferralCode,
}

// uniqueViolation reports the violated constraint for either supported driver.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return pqErr.Constraint, true
	}

	return "", false
}

func mapInsertError(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	if mapped, known := constraintErrors[constraint]; known {
		return mapped
	}
	return err
}

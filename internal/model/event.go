package model

import "time"

type LedgerEventType string

const (
	LedgerEventJoined           LedgerEventType = "joined"
	LedgerEventReferralCredited LedgerEventType = "referral_credited"
)

// LedgerEvent is broadcast to feed subscribers and admin notifiers. It never
// carries the email or wallet of an entry.
type LedgerEvent struct {
	Type           LedgerEventType `json:"type"`
	ReferralCode   string          `json:"referralCode"`
	Points         int             `json:"points"`
	TotalReferrals int             `json:"totalReferrals,omitempty"`
	Position       int             `json:"position,omitempty"`
	At             time.Time       `json:"at"`
}

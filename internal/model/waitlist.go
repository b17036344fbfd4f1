package model

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeSignup = "signup"

type WaitlistEntry struct {
	ID             uuid.UUID
	Email          string
	WalletAddress  *string
	TwitterHandle  *string
	ReferralCode   string
	ReferredBy     *string
	Points         int
	TotalReferrals int
	Metadata       EntryMetadata
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EntryMetadata is captured once at signup and stored as JSON.
type EntryMetadata struct {
	UserAgent              string          `json:"user_agent,omitempty"`
	IP                     string          `json:"ip,omitempty"`
	Source                 string          `json:"source,omitempty"`
	InitialPointsBreakdown PointsBreakdown `json:"initial_points_breakdown"`
}

type PointsBreakdown struct {
	Base    int `json:"base"`
	Wallet  int `json:"wallet"`
	Twitter int `json:"twitter"`
}

func (b PointsBreakdown) Total() int {
	return b.Base + b.Wallet + b.Twitter
}

type ReferralEvent struct {
	ID            uuid.UUID
	ReferrerID    uuid.UUID
	RefereeID     uuid.UUID
	ReferrerCode  string
	PointsAwarded int
	EventType     string
	CreatedAt     time.Time
}

// ReferralCredit is the referrer's state right after a credit was applied.
type ReferralCredit struct {
	ReferrerID     uuid.UUID
	ReferralCode   string
	Points         int
	TotalReferrals int
}

type Signup struct {
	Email          string
	WalletAddress  string
	TwitterHandle  string
	ReferredByCode string

	UserAgent string
	IP        string
	Source    string
}

type JoinResult struct {
	Position     int
	ReferralCode string
	Email        string
	Points       int
	PointsEarned int
}

type LeaderboardEntry struct {
	Rank           int
	ReferralCode   string
	TwitterHandle  *string
	Points         int
	TotalReferrals int
}

type EntryStats struct {
	Points         int
	TotalReferrals int
	Rank           *int
}

type EntrySummary struct {
	Email          string
	Points         int
	TotalReferrals int
	ReferralCode   string
	Rank           *int
	Position       int
	JoinedDate     time.Time
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeJoined    = "joined"
	OutcomeInvalid   = "invalid"
	OutcomeConflict  = "conflict"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"

	CreditUnknownCode = "unknown_code"
	CreditError       = "error"

	LookupPosition = "position"
	LookupRank     = "rank"
)

var (
	JoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "waitlist_joins_total", Help: "Join attempts by outcome"},
		[]string{"outcome"},
	)
	ReferralCreditsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "waitlist_referral_credits_total", Help: "Referral credits applied"},
	)
	ReferralCreditFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "waitlist_referral_credit_failures_total", Help: "Referral credits skipped or failed"},
		[]string{"reason"},
	)
	CodeCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "waitlist_referral_code_collisions_total", Help: "Generated referral codes already in use"},
	)
	CodeWideningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "waitlist_referral_code_widenings_total", Help: "Times code generation moved to a longer code"},
	)
	JoinDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "waitlist_join_duration_seconds", Help: "Join duration", Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2}},
	)
	LookupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "waitlist_lookup_failures_total", Help: "Position or rank lookups answered with a fallback"},
		[]string{"lookup"},
	)
	FeedSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "waitlist_feed_subscribers", Help: "Open ledger feed subscriptions"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		JoinsTotal,
		ReferralCreditsTotal,
		ReferralCreditFailuresTotal,
		CodeCollisionsTotal,
		CodeWideningsTotal,
		JoinDuration,
		LookupFailuresTotal,
		FeedSubscribers,
	)
}

func IncJoin(outcome string)                 { JoinsTotal.WithLabelValues(outcome).Inc() }
func IncReferralCredit()                     { ReferralCreditsTotal.Inc() }
func IncReferralCreditFailure(reason string) { ReferralCreditFailuresTotal.WithLabelValues(reason).Inc() }
func IncCodeCollision()                      { CodeCollisionsTotal.Inc() }
func IncCodeWidening()                       { CodeWideningsTotal.Inc() }
func IncLookupFailure(lookup string)         { LookupFailuresTotal.WithLabelValues(lookup).Inc() }

func ObserveJoin(seconds float64) { JoinDuration.Observe(seconds) }

func SetFeedSubscribers(n int) { FeedSubscribers.Set(float64(n)) }

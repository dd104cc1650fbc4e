package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the point-moving operations. Registered on the default
// registry and exposed via the /metrics endpoint.
var (
	PointsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rra_points_credited_total",
		Help: "Number of successful point credits.",
	})

	PointsDebited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rra_points_debited_total",
		Help: "Number of successful point debits.",
	})

	RedemptionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rra_redemptions_total",
		Help: "Number of successful item redemptions.",
	})

	ReferralBonusesAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rra_referral_bonuses_total",
		Help: "Number of referral bonus pairs awarded.",
	})

	HouseholdDriftCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rra_household_drift_corrections_total",
		Help: "Number of household totals corrected by recalculation.",
	})
)

// Package metrics exposes Prometheus counters for the rewards service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redemption outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomeNotFound           = "not_found"
	OutcomeInsufficientPoints = "insufficient_points"
	OutcomeDuplicate          = "duplicate"
	OutcomeUnavailable        = "unavailable"
	OutcomeError              = "error"
)

var (
	// RedemptionsTotal counts redemption attempts by terminal outcome.
	RedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_redemptions_total",
		Help: "Redemption attempts by outcome.",
	}, []string{"outcome"})

	// PointsSpentTotal accumulates points deducted by successful redemptions.
	PointsSpentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_points_spent_total",
		Help: "Total points deducted by successful redemptions.",
	})

	// NotificationFailuresTotal counts best-effort notification writes that
	// failed after the redemption committed.
	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_notification_failures_total",
		Help: "Redemption notifications that could not be written.",
	})
)

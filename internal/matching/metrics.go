// internal/matching/metrics.go

package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workswipe_swipes_total",
		Help: "Total number of swipes recorded, by decision",
	}, []string{"decision"})

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workswipe_matches_total",
		Help: "Total number of mutual matches created",
	})

	pendingLikesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workswipe_pending_likes_total",
		Help: "Total number of one-sided likes queued",
	})

	pendingAcceptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workswipe_pending_accepts_total",
		Help: "Total number of pending likes saved",
	})

	pendingDeclinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workswipe_pending_declines_total",
		Help: "Total number of pending likes declined",
	})

	promotionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workswipe_promotions_total",
		Help: "Total number of saved profiles promoted to matches",
	})

	feedBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "workswipe_feed_build_duration_seconds",
		Help:    "Time spent building a candidate feed",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordSwipe increments the swipe counter for a decision
func RecordSwipe(decision string) {
	swipesTotal.WithLabelValues(decision).Inc()
}

// RecordMatch increments the match counter
func RecordMatch() {
	matchesTotal.Inc()
}

// RecordPendingLike increments the pending like counter
func RecordPendingLike() {
	pendingLikesTotal.Inc()
}

// RecordPendingAccept increments the accept counter
func RecordPendingAccept() {
	pendingAcceptsTotal.Inc()
}

// RecordPendingDecline increments the decline counter
func RecordPendingDecline() {
	pendingDeclinesTotal.Inc()
}

// RecordPromotion increments the promotion counter
func RecordPromotion() {
	promotionsTotal.Inc()
}

// ObserveFeedBuild records how long a feed build took
func ObserveFeedBuild(d time.Duration) {
	feedBuildDuration.Observe(d.Seconds())
}

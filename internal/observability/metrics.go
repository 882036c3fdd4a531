package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OptimisticApplies counts local like/unlike deltas applied before the remote call resolves.
	OptimisticApplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_optimistic_applies_total",
		Help: "Total number of optimistic like state changes applied locally",
	}, []string{"action"})

	// OptimisticRollbacks counts rollbacks applied after a rejected like/unlike.
	OptimisticRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_optimistic_rollbacks_total",
		Help: "Total number of optimistic like state changes rolled back",
	}, []string{"action"})

	// FeedLoads counts feed load attempts by result.
	FeedLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_feed_loads_total",
		Help: "Total number of feed load attempts by result",
	}, []string{"result"})

	// SilentFetchFailures counts absorbed failures of the silent fetch class
	// (like status, liker sample, comment count).
	SilentFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_silent_fetch_failures_total",
		Help: "Total number of silently absorbed background fetch failures",
	}, []string{"fetch"})

	// RemoteErrors counts remote post service errors by endpoint.
	RemoteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_remote_errors_total",
		Help: "Total number of remote post service errors by endpoint",
	}, []string{"endpoint"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// WorkflowNotices counts user-facing error notices by workflow.
	WorkflowNotices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkr_workflow_notices_total",
		Help: "Total number of user-facing workflow error notices",
	}, []string{"workflow"})
)

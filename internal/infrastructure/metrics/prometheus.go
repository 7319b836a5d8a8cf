// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gostream"

var (
	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: videos
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// MessagesPublishedTotal tracks messages published to the broker.
	// Labels:
	//   - queue: one of the pipeline queue names
	//   - status: success, error
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Total number of messages published to the message broker",
		},
		[]string{"queue", "status"},
	)

	// MessagesConsumedTotal tracks messages consumed from the broker.
	// Labels:
	//   - queue: one of the pipeline queue names
	//   - decision: ack_and_drop, nack_requeue, nack_drop
	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total number of messages consumed from the message broker, by resulting ack decision",
		},
		[]string{"queue", "decision"},
	)

	// TranscodeDurationSeconds tracks how long a full ladder transcode
	// (every rendition of one job) takes.
	TranscodeDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcode_duration_seconds",
			Help:      "Duration of a full adaptive-bitrate transcode job",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// RenditionsProducedTotal counts the renditions produced by every
	// successful ladder transcode, summed across jobs.
	RenditionsProducedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renditions_produced_total",
			Help:      "Total number of HLS renditions produced across all transcode jobs",
		},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Publish status constants, shared by MessagesPublishedTotal.
const (
	PublishStatusSuccess = "success"
	PublishStatusError   = "error"
)

// Ack decision constants, mirroring repository.AckDecision for
// MessagesConsumedTotal's "decision" label.
const (
	DecisionAckAndDrop  = "ack_and_drop"
	DecisionNackRequeue = "nack_requeue"
	DecisionNackDrop    = "nack_drop"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
)

// Table name constants.
const (
	TableVideos = "videos"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

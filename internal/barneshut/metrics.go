package barneshut

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const orderLabel = "order"

var (
	treeBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bhtree_tree_builds_total",
		Help: "The number of trees built.",
	}, []string{
		orderLabel,
	})

	treeBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bhtree_tree_build_seconds",
		Help:    "The time to build a tree.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{
		orderLabel,
	})

	treeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bhtree_tree_nodes",
		Help:    "The number of nodes in each built tree.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bhtree_queries_total",
		Help: "The number of acceleration queries answered in batches.",
	}, []string{
		orderLabel,
	})

	queryBatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bhtree_query_batch_seconds",
		Help:    "The time to answer one batch of acceleration queries.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{
		orderLabel,
	})
)

func instrumentBuild(root *Node, start time.Time) {
	labels := prometheus.Labels{orderLabel: root.cfg.Order.String()}
	treeBuilds.With(labels).Inc()
	treeBuildLatency.With(labels).Observe(time.Since(start).Seconds())
	treeNodes.Observe(float64(root.Stats().Nodes))
}

func instrumentQueries(root *Node, n int, start time.Time) {
	labels := prometheus.Labels{orderLabel: root.cfg.Order.String()}
	queries.With(labels).Add(float64(n))
	queryBatchLatency.With(labels).Observe(time.Since(start).Seconds())
}

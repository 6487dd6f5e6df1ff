package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodesExpanded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "nodes_expanded_total",
		Help:      "Nodes popped from the frontier and expanded.",
	}, []string{"direction"})

	childrenAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "children_accepted_total",
		Help:      "Generated children pushed onto the frontier.",
	}, []string{"direction"})

	childrenSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "children_skipped_total",
		Help:      "Generated children rejected as no-ops or duplicates.",
	}, []string{"direction"})

	nodesCulled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "nodes_culled_total",
		Help:      "Frontier nodes evicted by culling.",
	}, []string{"direction"})

	frontierSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "frontier_size",
		Help:      "Frontier size after the most recent step.",
	}, []string{"direction"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "step_duration_seconds",
		Help:      "Wall time of one Step call.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"direction"})

	searchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fade",
		Subsystem: "search",
		Name:      "outcomes_total",
		Help:      "Searches that reached a terminal state, by state.",
	}, []string{"direction", "state"})
)

// engineMetrics caches the labelled children for one engine.
type engineMetrics struct {
	expanded prometheus.Counter
	accepted prometheus.Counter
	skipped  prometheus.Counter
	culled   prometheus.Counter
	frontier prometheus.Gauge
	step     prometheus.Observer
	dir      string
}

func newEngineMetrics(d Direction) engineMetrics {
	dir := string(d)
	return engineMetrics{
		expanded: nodesExpanded.WithLabelValues(dir),
		accepted: childrenAccepted.WithLabelValues(dir),
		skipped:  childrenSkipped.WithLabelValues(dir),
		culled:   nodesCulled.WithLabelValues(dir),
		frontier: frontierSize.WithLabelValues(dir),
		step:     stepDuration.WithLabelValues(dir),
		dir:      dir,
	}
}

func (m engineMetrics) outcome(s State) {
	searchOutcomes.WithLabelValues(m.dir, s.String()).Inc()
}

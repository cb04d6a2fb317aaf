// Package hotspot classifies complexity metrics against severity thresholds
// and groups decision points into line-proximity clusters.
package hotspot

import (
	"sort"

	"github.com/auspexlabs/auspex/pkg/models"
)

// Default thresholds and clustering parameters.
const (
	DefaultWarning        = 10
	DefaultCritical       = 15
	DefaultClusterWindow  = 5
	DefaultMinClusterSize = 3
)

// Classifier derives hotspots and clusters from raw complexity output. All
// fields are fixed at construction; a Classifier is safe to share.
type Classifier struct {
	warning        int
	critical       int
	clusterWindow  int
	minClusterSize int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThresholds sets the warning and critical complexity thresholds.
func WithThresholds(warning, critical int) Option {
	return func(c *Classifier) {
		c.warning = warning
		c.critical = critical
	}
}

// WithClustering sets the cluster line window and minimum cluster size.
func WithClustering(window, minSize int) Option {
	return func(c *Classifier) {
		c.clusterWindow = window
		c.minClusterSize = minSize
	}
}

// New creates a Classifier with the default thresholds (10/15) and clustering
// parameters (window 5, minimum size 3).
func New(opts ...Option) *Classifier {
	c := &Classifier{
		warning:        DefaultWarning,
		critical:       DefaultCritical,
		clusterWindow:  DefaultClusterWindow,
		minClusterSize: DefaultMinClusterSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Severity maps a complexity value to its severity tier.
func (c *Classifier) Severity(complexity int) models.Severity {
	switch {
	case complexity >= c.critical:
		return models.SeverityCritical
	case complexity >= c.warning:
		return models.SeverityWarning
	default:
		return models.SeverityNormal
	}
}

// Hotspots filters metrics to those above Normal severity, ordered by
// descending complexity with earlier lines winning ties.
func (c *Classifier) Hotspots(metrics []models.ComplexityMetric) []models.Hotspot {
	hotspots := make([]models.Hotspot, 0)
	for _, m := range metrics {
		severity := c.Severity(m.Complexity)
		if severity == models.SeverityNormal {
			continue
		}
		hotspots = append(hotspots, models.Hotspot{
			Name:           m.Name,
			Complexity:     m.Complexity,
			Line:           m.Line,
			Kind:           m.Kind,
			Severity:       severity,
			NestedDepth:    m.NestedDepth,
			DecisionPoints: m.DecisionPoints,
		})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Complexity != hotspots[j].Complexity {
			return hotspots[i].Complexity > hotspots[j].Complexity
		}
		return hotspots[i].Line < hotspots[j].Line
	})
	return hotspots
}

// Clusters groups decision points into maximal line-proximity runs: a run
// keeps growing while each next point is within the window of the previous
// one, and is emitted only when it reaches the minimum size. A point that
// breaks a run starts the next candidate.
func (c *Classifier) Clusters(points []models.DecisionPoint) []models.Cluster {
	sorted := make([]models.DecisionPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	clusters := make([]models.Cluster, 0)
	var run []models.DecisionPoint
	for _, p := range sorted {
		if len(run) == 0 || p.Line-run[len(run)-1].Line <= c.clusterWindow {
			run = append(run, p)
			continue
		}
		if cl, ok := c.closeRun(run); ok {
			clusters = append(clusters, cl)
		}
		run = []models.DecisionPoint{p}
	}
	if cl, ok := c.closeRun(run); ok {
		clusters = append(clusters, cl)
	}
	return clusters
}

func (c *Classifier) closeRun(run []models.DecisionPoint) (models.Cluster, bool) {
	if len(run) < c.minClusterSize {
		return models.Cluster{}, false
	}
	kinds := make([]models.DecisionPointKind, len(run))
	for i, p := range run {
		kinds[i] = p.Kind
	}
	return models.Cluster{
		StartLine: run[0].Line,
		EndLine:   run[len(run)-1].Line,
		Size:      len(run),
		Kinds:     kinds,
	}, true
}

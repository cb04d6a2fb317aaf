// Package complexity scores Python source units for cyclomatic complexity and
// assembles the hotspot-oriented complexity report.
package complexity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/auspexlabs/auspex/pkg/analyzer/hotspot"
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
	"github.com/auspexlabs/auspex/pkg/stats"
)

// Analyzer produces complexity reports. Configuration is fixed at
// construction; one instance may serve concurrent callers since every Analyze
// call parses and walks its own tree.
type Analyzer struct {
	warning    int
	critical   int
	classifier *hotspot.Classifier
	engine     *Engine
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger injects the diagnostic logging sink.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithClustering overrides the decision-point clustering parameters.
func WithClustering(window, minSize int) Option {
	return func(a *Analyzer) {
		a.classifier = hotspot.New(
			hotspot.WithThresholds(a.warning, a.critical),
			hotspot.WithClustering(window, minSize),
		)
	}
}

// New creates a complexity analyzer. The warning threshold must be strictly
// below the critical one.
func New(warning, critical int, opts ...Option) (*Analyzer, error) {
	if warning <= 0 || critical <= 0 || warning >= critical {
		return nil, fmt.Errorf("invalid thresholds: warning %d must be positive and below critical %d", warning, critical)
	}
	a := &Analyzer{
		warning:    warning,
		critical:   critical,
		classifier: hotspot.New(hotspot.WithThresholds(warning, critical)),
		engine:     NewEngine(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a, nil
}

// Analyze parses the source and builds the full complexity report. Malformed
// input yields pytree.ErrInvalidSyntax; any other traversal fault is reported
// as models.ErrAnalysis with detail going to the log only.
func (a *Analyzer) Analyze(ctx context.Context, source []byte) (report *models.ComplexityReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("complexity analysis panicked", "panic", r)
			report, err = nil, models.ErrAnalysis
		}
	}()

	tree, err := pytree.Parse(ctx, source)
	if err != nil {
		a.logger.Error("failed to parse code", "err", err)
		return nil, err
	}

	result := a.engine.Compute(tree)
	hotspots := a.classifier.Hotspots(result.PerFunction)
	metrics := a.buildMetrics(result)

	return &models.ComplexityReport{
		Metrics:              metrics,
		Hotspots:             hotspots,
		Recommendations:      a.buildRecommendations(metrics, hotspots),
		Details:              a.buildDetails(result.PerFunction),
		DecisionPointSummary: a.buildSummary(result.TotalDecisionPoints),
	}, nil
}

func (a *Analyzer) buildMetrics(result *Result) models.ComplexityMetrics {
	var functionComplexities []int
	maxComplexity := 0
	for _, m := range result.PerFunction {
		functionComplexities = append(functionComplexities, m.Complexity)
		if m.Complexity > maxComplexity {
			maxComplexity = m.Complexity
		}
	}

	unique := make(map[models.DecisionPointKind]bool)
	for _, p := range result.TotalDecisionPoints {
		unique[p.Kind] = true
	}

	return models.ComplexityMetrics{
		OverallComplexity:         result.OverallComplexity,
		AverageFunctionComplexity: stats.MeanInts(functionComplexities),
		MaxComplexity:             maxComplexity,
		TotalDecisionPoints:       len(result.TotalDecisionPoints),
		UniqueDecisionTypes:       len(unique),
	}
}

func (a *Analyzer) buildRecommendations(metrics models.ComplexityMetrics, hotspots []models.Hotspot) []models.ComplexityRecommendation {
	recs := make([]models.ComplexityRecommendation, 0)

	if metrics.OverallComplexity > a.critical*2 {
		recs = append(recs, models.ComplexityRecommendation{
			Type:       models.SeverityCritical,
			Message:    "Overall code complexity is very high",
			Suggestion: "Consider breaking down the code into smaller modules",
		})
	}

	if metrics.AverageFunctionComplexity > float64(a.warning) {
		recs = append(recs, models.ComplexityRecommendation{
			Type:       models.SeverityWarning,
			Message:    "Average function complexity is high",
			Suggestion: "Review functions for potential simplification",
		})
	}

	for _, h := range hotspots {
		if h.Severity == models.SeverityCritical {
			recs = append(recs, hotspotRecommendation(h))
		}
	}
	return recs
}

// hotspotRecommendation picks the suggestion from the dominant decision-point
// kind: a hotspot driven by a single kind gets a kind-specific fix, mixed
// hotspots get the generic decomposition advice.
func hotspotRecommendation(h models.Hotspot) models.ComplexityRecommendation {
	kinds := make(map[models.DecisionPointKind]bool)
	for _, p := range h.DecisionPoints {
		kinds[p.Kind] = true
	}

	var suggestion string
	if len(kinds) == 1 && len(h.DecisionPoints) > 0 {
		switch h.DecisionPoints[0].Kind {
		case models.DecisionConditional:
			suggestion = "Consider using strategy pattern or lookup tables"
		case models.DecisionLoop:
			suggestion = "Consider breaking loop body into smaller functions"
		default:
			suggestion = "Consider breaking down into smaller functions"
		}
	} else {
		suggestion = "Break down the code into smaller, focused functions handling specific cases"
	}

	return models.ComplexityRecommendation{
		Type:       models.SeverityCritical,
		Message:    fmt.Sprintf("High complexity in %s '%s'", h.Kind, h.Name),
		Suggestion: suggestion,
		Location:   fmt.Sprintf("Line %d", h.Line),
	}
}

func (a *Analyzer) buildDetails(metrics []models.ComplexityMetric) []models.UnitDetail {
	details := make([]models.UnitDetail, 0, len(metrics))
	for _, m := range metrics {
		points := make([]models.DecisionPointDetail, 0, len(m.DecisionPoints))
		for _, p := range m.DecisionPoints {
			points = append(points, models.DecisionPointDetail{
				Kind:        p.Kind,
				Line:        p.Line,
				Description: p.Kind.Description(),
			})
		}
		details = append(details, models.UnitDetail{
			Name:           m.Name,
			Kind:           m.Kind,
			Complexity:     m.Complexity,
			Line:           m.Line,
			NestedDepth:    m.NestedDepth,
			Severity:       a.classifier.Severity(m.Complexity),
			DecisionPoints: points,
		})
	}
	return details
}

func (a *Analyzer) buildSummary(points []models.DecisionPoint) models.DecisionPointSummary {
	counts := make(map[models.DecisionPointKind]int)
	for _, p := range points {
		counts[p.Kind]++
	}

	distributions := make(map[models.DecisionPointKind]models.KindDistribution, len(counts))
	for kind, count := range counts {
		distributions[kind] = models.KindDistribution{
			Count:      count,
			Percentage: stats.Percentage(count, len(points)),
		}
	}

	return models.DecisionPointSummary{
		TotalPoints:   len(points),
		Distributions: distributions,
		Clusters:      a.classifier.Clusters(points),
	}
}

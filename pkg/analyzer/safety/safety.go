// Package safety detects risky coding patterns in Python source units and
// assembles the safety report with remediation guidance.
package safety

import (
	"context"
	"log/slog"

	"github.com/auspexlabs/auspex/pkg/analyzer/complexity"
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

// complexityRecommendationThreshold triggers the generic complexity
// recommendation in the safety report.
const complexityRecommendationThreshold = 10

// Analyzer produces safety reports. The pattern catalog is immutable and
// process-wide; everything else is created per Analyze call, so one instance
// serves concurrent callers.
type Analyzer struct {
	catalog []models.RiskPattern
	engine  *complexity.Engine
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger injects the diagnostic logging sink.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates a safety analyzer. Its metric traversal counts conditionals,
// loops and boolean operators only, the decision-point set the safety report
// has always used.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog: Catalog(),
		engine: complexity.NewEngine(complexity.WithKinds(
			models.DecisionConditional,
			models.DecisionLoop,
			models.DecisionBooleanOp,
		)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Analyze parses the source, runs the six pattern checks, and assembles the
// safety report. Malformed input yields pytree.ErrInvalidSyntax; any other
// fault maps to models.ErrAnalysis with detail only in the log.
func (a *Analyzer) Analyze(ctx context.Context, source []byte) (report *models.SafetyReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("safety analysis panicked", "panic", r)
			report, err = nil, models.ErrAnalysis
		}
	}()

	tree, err := pytree.Parse(ctx, source)
	if err != nil {
		a.logger.Error("failed to parse code", "err", err)
		return nil, err
	}

	d := newDetector()
	d.scan(tree)

	findings := make([]models.Finding, 0)
	for _, pattern := range a.catalog {
		if lines := d.lines(pattern.ID); lines != nil {
			findings = append(findings, models.Finding{Pattern: pattern, Locations: lines})
		}
	}

	metrics := a.buildMetrics(tree)
	return &models.SafetyReport{
		Findings:        findings,
		Metrics:         metrics,
		Recommendations: buildRecommendations(findings, metrics),
	}, nil
}

func (a *Analyzer) buildMetrics(tree *pytree.Tree) models.SafetyMetrics {
	result := a.engine.Compute(tree)
	return models.SafetyMetrics{
		CyclomaticComplexity: result.OverallComplexity,
		NumberOfFunctions:    result.FunctionCount,
		NumberOfClasses:      result.ClassCount,
		LinesOfCode:          tree.NonBlankLines,
		CommentRatio:         tree.CommentRatio(),
	}
}

func buildRecommendations(findings []models.Finding, metrics models.SafetyMetrics) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(findings))
	for _, f := range findings {
		recs = append(recs, models.Recommendation{
			Title:       "Address " + f.Pattern.Name,
			Description: f.Pattern.Description,
			Remediation: f.Pattern.Remediation,
			Priority:    f.Pattern.RiskLevel,
		})
	}

	if metrics.CyclomaticComplexity > complexityRecommendationThreshold {
		recs = append(recs, models.Recommendation{
			Title:       "Reduce Code Complexity",
			Description: "High cyclomatic complexity detected",
			Remediation: "Consider breaking down complex functions",
			Priority:    models.RiskMedium,
		})
	}
	return recs
}

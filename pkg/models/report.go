package models

import "errors"

// SafetyMetrics is the metric block of the safety report.
type SafetyMetrics struct {
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	NumberOfFunctions    int     `json:"number_of_functions"`
	NumberOfClasses      int     `json:"number_of_classes"`
	LinesOfCode          int     `json:"lines_of_code"`
	CommentRatio         float64 `json:"comment_ratio"`
}

// Recommendation is one remediation entry of the safety report.
type Recommendation struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Remediation string    `json:"remediation"`
	Priority    RiskLevel `json:"priority"`
}

// SafetyReport is the full result of a safety analysis run.
type SafetyReport struct {
	Findings        []Finding        `json:"findings"`
	Metrics         SafetyMetrics    `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ComplexityMetrics is the aggregate metric block of the complexity report.
type ComplexityMetrics struct {
	OverallComplexity         int     `json:"overall_complexity"`
	AverageFunctionComplexity float64 `json:"average_function_complexity"`
	MaxComplexity             int     `json:"max_complexity"`
	TotalDecisionPoints       int     `json:"total_decision_points"`
	UniqueDecisionTypes       int     `json:"unique_decision_types"`
}

// ComplexityRecommendation is one suggestion entry of the complexity report.
type ComplexityRecommendation struct {
	Type       Severity `json:"type"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Location   string   `json:"location,omitempty"`
}

// DecisionPointDetail annotates a decision point with its description for the
// per-unit detail listing.
type DecisionPointDetail struct {
	Kind        DecisionPointKind `json:"type"`
	Line        int               `json:"line"`
	Description string            `json:"description"`
}

// UnitDetail is the per-function entry of the complexity report.
type UnitDetail struct {
	Name           string                `json:"name"`
	Kind           UnitKind              `json:"type"`
	Complexity     int                   `json:"complexity"`
	Line           int                   `json:"line_number"`
	NestedDepth    int                   `json:"nested_depth"`
	Severity       Severity              `json:"severity"`
	DecisionPoints []DecisionPointDetail `json:"decision_points"`
}

// KindDistribution is the share of one decision-point kind in the unit.
type KindDistribution struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DecisionPointSummary aggregates all decision points of the unit.
type DecisionPointSummary struct {
	TotalPoints   int                                    `json:"total_points"`
	Distributions map[DecisionPointKind]KindDistribution `json:"distributions"`
	Clusters      []Cluster                              `json:"clusters"`
}

// ComplexityReport is the full result of a complexity analysis run.
type ComplexityReport struct {
	Metrics              ComplexityMetrics          `json:"metrics"`
	Hotspots             []Hotspot                  `json:"hotspots"`
	Recommendations      []ComplexityRecommendation `json:"recommendations"`
	Details              []UnitDetail               `json:"details"`
	DecisionPointSummary DecisionPointSummary       `json:"decision_point_summary"`
}

// ErrAnalysis is the generic internal-fault marker: the payload returned to
// callers stays deliberately vague while detail goes to the log.
var ErrAnalysis = errors.New("analysis failed")

// ErrorResult is the single-field failure payload. A result carrying Error
// has no findings or metrics; callers must not interpret anything else.
type ErrorResult struct {
	Error string `json:"error"`
}

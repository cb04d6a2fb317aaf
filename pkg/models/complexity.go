package models

// UnitKind is the domain of the serialized `type` tag on metrics and
// hotspots. Classes deepen nesting but are never scored, so every produced
// metric carries UnitFunction; UnitClass completes the tag's value set for
// consumers of the report format.
type UnitKind string

const (
	UnitFunction UnitKind = "function"
	UnitClass    UnitKind = "class"
)

// ComplexityMetric holds the cyclomatic complexity of a single function or
// method. Created when traversal leaves that function's subtree and never
// mutated afterward; Complexity is always 1 + len(DecisionPoints).
type ComplexityMetric struct {
	Name           string          `json:"name"`
	Kind           UnitKind        `json:"type"`
	Complexity     int             `json:"complexity"`
	Line           int             `json:"line_number"`
	NestedDepth    int             `json:"nested_depth"`
	DecisionPoints []DecisionPoint `json:"decision_points"`
}

// Severity classifies a complexity value against the configured thresholds.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Hotspot is a severity-classified view over a ComplexityMetric. Derived per
// analysis, never persisted.
type Hotspot struct {
	Name           string          `json:"name"`
	Complexity     int             `json:"complexity"`
	Line           int             `json:"line_number"`
	Kind           UnitKind        `json:"type"`
	Severity       Severity        `json:"severity"`
	NestedDepth    int             `json:"nested_depth"`
	DecisionPoints []DecisionPoint `json:"decision_points"`
}

// Cluster is a maximal run of decision points whose consecutive line gaps stay
// within the cluster window.
type Cluster struct {
	StartLine int                 `json:"start_line"`
	EndLine   int                 `json:"end_line"`
	Size      int                 `json:"size"`
	Kinds     []DecisionPointKind `json:"types"`
}

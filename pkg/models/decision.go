package models

// DecisionPointKind classifies a construct that adds one path to cyclomatic
// complexity.
type DecisionPointKind string

const (
	DecisionConditional DecisionPointKind = "if"
	DecisionLoop        DecisionPointKind = "loop"
	DecisionExcept      DecisionPointKind = "except"
	DecisionBooleanOp   DecisionPointKind = "boolean_op"
	DecisionReturn      DecisionPointKind = "return"
)

// AllDecisionKinds lists every kind, in catalog order.
func AllDecisionKinds() []DecisionPointKind {
	return []DecisionPointKind{
		DecisionConditional,
		DecisionLoop,
		DecisionExcept,
		DecisionBooleanOp,
		DecisionReturn,
	}
}

// Description returns the human-readable label used in detailed reports.
func (k DecisionPointKind) Description() string {
	switch k {
	case DecisionConditional:
		return "Conditional branch"
	case DecisionLoop:
		return "Loop construct"
	case DecisionExcept:
		return "Exception handler"
	case DecisionBooleanOp:
		return "Boolean operation"
	case DecisionReturn:
		return "Early return statement"
	default:
		return "Unknown decision point"
	}
}

// DecisionPoint is one recorded branching construct. Immutable once created.
type DecisionPoint struct {
	Kind DecisionPointKind `json:"type"`
	Line int               `json:"line"`
}

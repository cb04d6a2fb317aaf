package complexity

import (
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

// Engine computes cyclomatic complexity in a single depth-first traversal.
// The set of counted decision-point kinds is configurable so the safety and
// complexity analyzers can share one walk instead of carrying two drifting
// visitors.
type Engine struct {
	kinds map[models.DecisionPointKind]bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithKinds restricts the engine to the given decision-point kinds.
func WithKinds(kinds ...models.DecisionPointKind) EngineOption {
	return func(e *Engine) {
		e.kinds = make(map[models.DecisionPointKind]bool, len(kinds))
		for _, k := range kinds {
			e.kinds[k] = true
		}
	}
}

// NewEngine creates an engine counting every decision-point kind.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	WithKinds(models.AllDecisionKinds()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the raw output of one traversal.
type Result struct {
	PerFunction         []models.ComplexityMetric
	TotalDecisionPoints []models.DecisionPoint
	OverallComplexity   int
	FunctionCount       int
	ClassCount          int
}

type funcContext struct {
	name   string
	line   int
	depth  int
	points []models.DecisionPoint
}

type walker struct {
	engine *Engine
	result *Result
	stack  []*funcContext
	depth  int
}

// Compute walks the tree once and scores every function and method.
func (e *Engine) Compute(tree *pytree.Tree) *Result {
	w := &walker{engine: e, result: &Result{}}
	w.walk(tree.Root)
	w.result.OverallComplexity = 1 + len(w.result.TotalDecisionPoints)
	return w.result
}

func (w *walker) walk(n *pytree.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case pytree.KindFunctionDef:
		w.enterFunction(n)
		return
	case pytree.KindClassDef:
		// Classes deepen nesting for their body but get no score of their own.
		w.result.ClassCount++
		w.depth++
		w.walkChildren(n)
		w.depth--
		return
	case pytree.KindConditional:
		w.record(models.DecisionConditional, n.Line)
	case pytree.KindLoop:
		w.record(models.DecisionLoop, n.Line)
	case pytree.KindExceptHandler:
		w.record(models.DecisionExcept, n.Line)
	case pytree.KindBooleanOp:
		w.record(models.DecisionBooleanOp, n.Line)
	case pytree.KindReturn:
		// Module-level returns measure nothing: complexity is branching
		// within a callable.
		if len(w.stack) > 0 {
			w.record(models.DecisionReturn, n.Line)
		}
	}
	w.walkChildren(n)
}

func (w *walker) walkChildren(n *pytree.Node) {
	for _, c := range n.Children {
		w.walk(c)
	}
}

func (w *walker) enterFunction(n *pytree.Node) {
	w.result.FunctionCount++
	w.depth++
	ctx := &funcContext{name: n.Name, line: n.Line, depth: w.depth}
	w.stack = append(w.stack, ctx)

	w.walkChildren(n)

	w.stack = w.stack[:len(w.stack)-1]
	w.depth--

	w.result.PerFunction = append(w.result.PerFunction, models.ComplexityMetric{
		Name:           ctx.name,
		Kind:           models.UnitFunction,
		Complexity:     1 + len(ctx.points),
		Line:           ctx.line,
		NestedDepth:    ctx.depth,
		DecisionPoints: ctx.points,
	})
}

// record attributes a decision point to the innermost active function only
// and to the unit-wide total.
func (w *walker) record(kind models.DecisionPointKind, line int) {
	if !w.engine.kinds[kind] {
		return
	}
	point := models.DecisionPoint{Kind: kind, Line: line}
	if len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		top.points = append(top.points, point)
	}
	w.result.TotalDecisionPoints = append(w.result.TotalDecisionPoints, point)
}

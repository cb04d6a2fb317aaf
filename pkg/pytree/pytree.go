// Package pytree parses Python source with tree-sitter and lowers the raw
// grammar tree into a closed set of tagged node variants. The analyzers walk
// this typed tree only; tree-sitter never leaks past this package.
package pytree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrInvalidSyntax reports that the source could not be parsed as Python.
var ErrInvalidSyntax = errors.New("invalid syntax")

// Kind tags a lowered node.
type Kind string

const (
	KindModule        Kind = "module"
	KindFunctionDef   Kind = "function_def"
	KindClassDef      Kind = "class_def"
	KindConditional   Kind = "conditional"
	KindLoop          Kind = "loop"
	KindExceptHandler Kind = "except_handler"
	KindBooleanOp     Kind = "boolean_op"
	KindReturn        Kind = "return"
	KindAssignment    Kind = "assignment"
	KindCall          Kind = "call"
	KindBinaryOp      Kind = "binary_op"
	KindStringLit     Kind = "string"
	KindIdentifier    Kind = "identifier"
	KindOther         Kind = "other"
)

// Node is one lowered syntax node. Children always contains every lowered
// descendant exactly once; the typed fields (Value, Left, Operands, ...) alias
// entries of Children so a single walk over Children visits the whole subtree.
type Node struct {
	Kind     Kind
	Line     int // 1-based source line
	Children []*Node

	// FunctionDef, ClassDef: definition name. Call: full callee text
	// (including dotted attributes, e.g. "pickle.loads"). Identifier: the name.
	Name string

	// Assignment
	Targets []string
	Value   *Node

	// BinaryOp
	Op          string
	Left, Right *Node

	// BooleanOp: operands of a flattened same-operator chain.
	Operands []*Node

	// Call
	Args []*Node

	// StringLit: unquoted literal value.
	Str string

	// ExceptHandler: declared exception type text, "" for a bare except.
	ExceptType string
}

// Tree is a fully lowered source unit.
type Tree struct {
	Root *Node

	// Source-level counters used by the safety metrics.
	NonBlankLines int
	CommentLines  int
}

// CommentRatio returns comment lines over non-blank lines.
func (t *Tree) CommentRatio() float64 {
	if t.NonBlankLines == 0 {
		return 0
	}
	return float64(t.CommentLines) / float64(t.NonBlankLines)
}

// Walk calls fn for n and every node below it, depth first, stopping a branch
// when fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Parse lowers a unit of Python source. A fresh tree-sitter parser is created
// per call, so a shared analyzer instance can parse from concurrent callers.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	st, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer st.Close()

	root := st.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrInvalidSyntax
	}

	l := &lowerer{source: source}
	tree := &Tree{Root: l.lower(root)}
	tree.CommentLines = l.comments
	tree.NonBlankLines = countNonBlank(source)
	return tree, nil
}

func countNonBlank(source []byte) int {
	n := 0
	for _, line := range strings.Split(string(source), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

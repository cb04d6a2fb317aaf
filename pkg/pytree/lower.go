package pytree

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// lowerer converts a tree-sitter parse tree into the tagged node model.
type lowerer struct {
	source   []byte
	comments int
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start > end || end > uint32(len(l.source)) {
		return ""
	}
	return string(l.source[start:end])
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// lower maps one grammar node to a tagged node, recursing into named children.
// Grammar kinds outside the closed set become KindOther so no construct is
// silently dropped from the walk.
func (l *lowerer) lower(n *sitter.Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "comment":
		l.comments++
		return nil

	case "module":
		return &Node{Kind: KindModule, Line: line(n), Children: l.lowerChildren(n)}

	case "decorated_definition":
		def := l.lower(n.ChildByFieldName("definition"))
		if def == nil {
			return &Node{Kind: KindOther, Line: line(n), Children: l.lowerChildren(n)}
		}
		// Decorator expressions belong to the definition they annotate, the
		// same attribution Python's ast gives decorator_list.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() != "decorator" {
				continue
			}
			if lowered := l.lower(c); lowered != nil {
				def.Children = append(def.Children, lowered)
			}
		}
		return def

	case "function_definition":
		return &Node{
			Kind:     KindFunctionDef,
			Line:     line(n),
			Name:     l.text(n.ChildByFieldName("name")),
			Children: l.lowerChildren(n),
		}

	case "class_definition":
		return &Node{
			Kind:     KindClassDef,
			Line:     line(n),
			Name:     l.text(n.ChildByFieldName("name")),
			Children: l.lowerChildren(n),
		}

	case "if_statement", "elif_clause":
		// Python's ast represents elif as a nested If, so each elif clause
		// lowers to its own Conditional.
		return &Node{Kind: KindConditional, Line: line(n), Children: l.lowerChildren(n)}

	case "while_statement", "for_statement":
		return &Node{Kind: KindLoop, Line: line(n), Children: l.lowerChildren(n)}

	case "except_clause":
		return l.lowerExcept(n)

	case "boolean_operator":
		return l.lowerBoolean(n)

	case "return_statement":
		return &Node{Kind: KindReturn, Line: line(n), Children: l.lowerChildren(n)}

	case "assignment":
		return l.lowerAssignment(n)

	case "call":
		return l.lowerCall(n)

	case "binary_operator":
		return l.lowerBinary(n)

	case "string":
		return &Node{Kind: KindStringLit, Line: line(n), Str: unquote(l.text(n))}

	case "concatenated_string":
		// Adjacent literals are one constant in Python's ast.
		var b strings.Builder
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "string" {
				b.WriteString(unquote(l.text(c)))
			}
		}
		return &Node{Kind: KindStringLit, Line: line(n), Str: b.String()}

	case "identifier":
		return &Node{Kind: KindIdentifier, Line: line(n), Name: l.text(n)}

	default:
		children := l.lowerChildren(n)
		if len(children) == 0 && n.NamedChildCount() == 0 && n.Type() != "ERROR" {
			// Leaf token with no structural content (numbers, operators, ...).
			return nil
		}
		return &Node{Kind: KindOther, Line: line(n), Children: children}
	}
}

func (l *lowerer) lowerChildren(n *sitter.Node) []*Node {
	var out []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := l.lower(n.NamedChild(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// lowerExcept extracts the declared exception type, if any. The first named
// child before the handler block is the type expression; `except E as e:`
// yields the type followed by the alias.
func (l *lowerer) lowerExcept(n *sitter.Node) *Node {
	node := &Node{Kind: KindExceptHandler, Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if node.ExceptType == "" && c.Type() != "block" && c.Type() != "comment" {
			if c.Type() == "as_pattern" {
				if inner := c.NamedChild(0); inner != nil {
					node.ExceptType = l.text(inner)
				}
			} else {
				node.ExceptType = l.text(c)
			}
		}
		if lowered := l.lower(c); lowered != nil {
			node.Children = append(node.Children, lowered)
		}
	}
	return node
}

// lowerBoolean flattens same-operator chains into a single BooleanOp, matching
// the shape Python's ast gives `a and b and c` (one node, three operands).
// Mixed operators stay nested: `a and b or c` remains two nodes.
func (l *lowerer) lowerBoolean(n *sitter.Node) *Node {
	op := l.text(n.ChildByFieldName("operator"))
	node := &Node{Kind: KindBooleanOp, Line: line(n), Op: op}
	node.Operands = l.collectOperands(n, op)
	node.Children = node.Operands
	return node
}

func (l *lowerer) collectOperands(n *sitter.Node, op string) []*Node {
	var out []*Node
	for _, field := range []string{"left", "right"} {
		c := n.ChildByFieldName(field)
		if c == nil {
			continue
		}
		if c.Type() == "boolean_operator" && l.text(c.ChildByFieldName("operator")) == op {
			out = append(out, l.collectOperands(c, op)...)
			continue
		}
		if lowered := l.lower(c); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (l *lowerer) lowerAssignment(n *sitter.Node) *Node {
	node := &Node{Kind: KindAssignment, Line: line(n)}
	if left := n.ChildByFieldName("left"); left != nil {
		node.Targets = l.targetNames(left)
		// Subscript and attribute targets can nest arbitrary expressions, so
		// the left-hand subtree stays visible to the walk.
		if lowered := l.lower(left); lowered != nil {
			node.Children = append(node.Children, lowered)
		}
	}
	if right := n.ChildByFieldName("right"); right != nil {
		node.Value = l.lower(right)
	}
	if node.Value != nil {
		node.Children = append(node.Children, node.Value)
	}
	return node
}

// targetNames collects plain identifier targets; tuple and list patterns are
// expanded, attribute or subscript targets are ignored.
func (l *lowerer) targetNames(n *sitter.Node) []string {
	switch n.Type() {
	case "identifier":
		return []string{l.text(n)}
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list":
		var names []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			names = append(names, l.targetNames(n.NamedChild(i))...)
		}
		return names
	default:
		return nil
	}
}

func (l *lowerer) lowerCall(n *sitter.Node) *Node {
	node := &Node{
		Kind: KindCall,
		Line: line(n),
		Name: l.text(n.ChildByFieldName("function")),
	}
	// The callee expression is a full subtree of its own: chained calls nest
	// the previous call (and its arguments) inside the `function` field, so it
	// must be lowered or those constructs vanish from the walk.
	if callee := l.lower(n.ChildByFieldName("function")); callee != nil {
		node.Children = append(node.Children, callee)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if a := l.lower(args.NamedChild(i)); a != nil {
				node.Args = append(node.Args, a)
			}
		}
	}
	node.Children = append(node.Children, node.Args...)
	return node
}

func (l *lowerer) lowerBinary(n *sitter.Node) *Node {
	node := &Node{
		Kind: KindBinaryOp,
		Line: line(n),
		Op:   l.text(n.ChildByFieldName("operator")),
	}
	node.Left = l.lower(n.ChildByFieldName("left"))
	node.Right = l.lower(n.ChildByFieldName("right"))
	if node.Left != nil {
		node.Children = append(node.Children, node.Left)
	}
	if node.Right != nil {
		node.Children = append(node.Children, node.Right)
	}
	return node
}

// unquote strips string prefixes and the surrounding quote pair from a Python
// string literal.
func unquote(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

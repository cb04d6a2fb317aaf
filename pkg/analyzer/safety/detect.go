package safety

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

// Identifier fragments that mark an assignment target as credential-like.
var credentialHints = []string{"password", "secret", "key", "token"}

// Callees that load untrusted bytes into live objects.
var unsafeDeserializers = map[string]bool{
	"pickle.loads": true,
	"yaml.load":    true,
}

// Callees that emit debug or trace output.
var debugCallees = map[string]bool{
	"print":         true,
	"logging.debug": true,
}

// Callees that open a file path.
var fileOpeners = map[string]bool{
	"open": true,
}

var sqlKeywords = []string{"select", "insert", "update", "delete", "where", "from"}

// detector accumulates matched lines per pattern over one tree walk.
// Roaring bitmaps keep each location set deduplicated and ordered.
type detector struct {
	locations map[string]*roaring.Bitmap
}

func newDetector() *detector {
	return &detector{locations: make(map[string]*roaring.Bitmap)}
}

func (d *detector) flag(patternID string, line int) {
	bm, ok := d.locations[patternID]
	if !ok {
		bm = roaring.New()
		d.locations[patternID] = bm
	}
	bm.Add(uint32(line))
}

// lines returns the ordered match lines for a pattern, nil if it never fired.
func (d *detector) lines(patternID string) []int {
	bm, ok := d.locations[patternID]
	if !ok || bm.IsEmpty() {
		return nil
	}
	out := make([]int, 0, bm.GetCardinality())
	bm.Iterate(func(line uint32) bool {
		out = append(out, int(line))
		return true
	})
	return out
}

// scan runs all six checks over the tree. The checks are independent
// structural predicates; several may fire on the same node.
func (d *detector) scan(tree *pytree.Tree) {
	pytree.Walk(tree.Root, func(n *pytree.Node) bool {
		switch n.Kind {
		case pytree.KindAssignment:
			d.checkCredentials(n)
		case pytree.KindCall:
			d.checkCall(n)
		case pytree.KindBinaryOp:
			d.checkSQLConcat(n)
		case pytree.KindExceptHandler:
			d.checkBroadExcept(n)
		}
		return true
	})
}

func (d *detector) checkCredentials(n *pytree.Node) {
	if n.Value == nil || n.Value.Kind != pytree.KindStringLit {
		return
	}
	for _, target := range n.Targets {
		name := strings.ToLower(target)
		for _, hint := range credentialHints {
			if strings.Contains(name, hint) {
				d.flag(PatternCredentials, n.Line)
				return
			}
		}
	}
}

func (d *detector) checkCall(n *pytree.Node) {
	if unsafeDeserializers[n.Name] {
		d.flag(PatternDeserialization, n.Line)
	}
	if debugCallees[n.Name] {
		d.flag(PatternDebugInfo, n.Line)
	}
	if fileOpeners[n.Name] {
		d.checkFilePath(n)
	}
}

// checkFilePath is the minimum viable unsafe-path detection: the opened path
// is a `+` concatenation with a plain identifier of unknown provenance.
func (d *detector) checkFilePath(n *pytree.Node) {
	if len(n.Args) == 0 {
		return
	}
	path := n.Args[0]
	if path.Kind != pytree.KindBinaryOp || path.Op != "+" {
		return
	}
	if isIdentifier(path.Left) || isIdentifier(path.Right) {
		d.flag(PatternFilePath, n.Line)
	}
}

func isIdentifier(n *pytree.Node) bool {
	return n != nil && n.Kind == pytree.KindIdentifier
}

// checkSQLConcat inspects exactly the two immediate operands of a `+` node;
// chained concatenations are evaluated node-by-node, never flattened. This
// matches the intended (under-)detection boundary.
func (d *detector) checkSQLConcat(n *pytree.Node) {
	if n.Op != "+" {
		return
	}
	left, leftIsLit := literalValue(n.Left)
	right, rightIsLit := literalValue(n.Right)
	if !leftIsLit && !rightIsLit {
		return
	}
	combined := strings.ToLower(left + " " + right)
	for _, kw := range sqlKeywords {
		if strings.Contains(combined, kw) {
			d.flag(PatternSQLConcat, n.Line)
			return
		}
	}
}

// literalValue returns the string value of a literal operand; non-literal
// operands contribute the empty string.
func literalValue(n *pytree.Node) (string, bool) {
	if n != nil && n.Kind == pytree.KindStringLit {
		return n.Str, true
	}
	return "", false
}

// checkBroadExcept flags bare handlers and handlers declaring the most
// general exception supertype.
func (d *detector) checkBroadExcept(n *pytree.Node) {
	if n.ExceptType == "" || n.ExceptType == "Exception" {
		d.flag(PatternErrorSuppress, n.Line)
	}
}

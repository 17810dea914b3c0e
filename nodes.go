package infix

import (
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Node is a node in the tree of an expression. Each binary node exclusively
// owns its two children.
type Node struct {
	Kind NodeKind
	// Num is the value of a NodeNum.
	Num float64
	// Name is the variable of a NodeVar.
	Name rune
	// Left and Right are the operands of binary nodes. For NodeAssign, Left
	// is the NodeVar being bound and Right is its value.
	Left  *Node
	Right *Node
}

// NodeKind is the kind of a node.
type NodeKind int8

const (
	NodeNone NodeKind = iota

	NodeNum // number
	NodeVar // variable lookup

	NodeSum // left + right
	NodeSub // left - right
	NodeMul // left * right
	NodeDiv // right / left

	NodeAssign // bind left to right; only at the root of a statement
)

var nodeKindStrings = [...]string{
	NodeNone:   "None",
	NodeNum:    "Num",
	NodeVar:    "Var",
	NodeSum:    "Sum",
	NodeSub:    "Sub",
	NodeMul:    "Mul",
	NodeDiv:    "Div",
	NodeAssign: "Assign",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindStrings) {
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindStrings[k]
}

// Num creates a number node.
func Num(v float64) *Node {
	return &Node{Kind: NodeNum, Num: v}
}

// Var creates a variable node.
func Var(name rune) *Node {
	return &Node{Kind: NodeVar, Name: name}
}

func Sum(l, r *Node) *Node { return &Node{Kind: NodeSum, Left: l, Right: r} }
func Sub(l, r *Node) *Node { return &Node{Kind: NodeSub, Left: l, Right: r} }
func Mul(l, r *Node) *Node { return &Node{Kind: NodeMul, Left: l, Right: r} }

// Div creates a division node. Note that a folded division divides the value
// of r by the value of l.
func Div(l, r *Node) *Node { return &Node{Kind: NodeDiv, Left: l, Right: r} }

// Assign creates a node binding the variable name to value.
func Assign(name rune, value *Node) *Node {
	return &Node{Kind: NodeAssign, Left: Var(name), Right: value}
}

// String renders the expression. Sums and differences are always wrapped in
// round brackets; products and quotients never are.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	switch n.Kind {
	case NodeNum:
		b.WriteString(FormatNum(n.Num))
	case NodeVar:
		b.WriteRune(n.Name)
	case NodeSum:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteString(" + ")
		n.Right.fmt(b)
		b.WriteByte(')')
	case NodeSub:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteString(" - ")
		n.Right.fmt(b)
		b.WriteByte(')')
	case NodeMul:
		n.Left.fmt(b)
		b.WriteString(" * ")
		n.Right.fmt(b)
	case NodeDiv:
		n.Left.fmt(b)
		b.WriteString(" / ")
		n.Right.fmt(b)
	case NodeAssign:
		n.Left.fmt(b)
		b.WriteString(" = ")
		n.Right.fmt(b)
	default:
		panic("infix: invalid node kind " + n.Kind.String() + " after writing " + b.String())
	}
}

// FormatNum renders a number in the shortest plain decimal notation that
// parses back to the same value, e.g. "18", "0.25", or "+Inf".
func FormatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Copy returns a deep copy of the tree.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	m := *n
	m.Left = n.Left.Copy()
	m.Right = n.Right.Copy()
	return &m
}

// Nodes returns a pre-order traversal of the tree: each node, then its left
// subtree, then its right subtree. The sequence may be iterated any number of
// times.
func (n *Node) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	return yield(n) && n.Left.walk(yield) && n.Right.walk(yield)
}

// Vars returns the distinct variables named in the tree, in sorted order.
func (n *Node) Vars() []rune {
	var names []rune
	for m := range n.Nodes() {
		if m.Kind == NodeVar && !slices.Contains(names, m.Name) {
			names = append(names, m.Name)
		}
	}
	slices.Sort(names)
	return names
}

// Equal reports whether two trees have the same shape, kinds, names, and
// numbers. NaN numbers are equal to each other.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.Kind != m.Kind {
		return false
	}
	switch n.Kind {
	case NodeNum:
		return n.Num == m.Num || math.IsNaN(n.Num) && math.IsNaN(m.Num)
	case NodeVar:
		return n.Name == m.Name
	default:
		return n.Left.Equal(m.Left) && n.Right.Equal(m.Right)
	}
}

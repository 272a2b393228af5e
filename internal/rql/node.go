package rql

import "strings"

// Node is a named RQL call with ordered positional arguments.
//
// The root of a parsed expression may have an empty Name: a top-level
// comma-separated sequence such as "variable(...),study(...)" parses into
// an unnamed node whose arguments are the sequence members.
type Node struct {
	Name string
	Args []Value
}

func (*Node) rqlValue() {}

// NewNode creates a node with the given name and arguments.
func NewNode(name string, args ...Value) *Node {
	return &Node{Name: name, Args: args}
}

// Type returns the node type for the node's name.
// The boolean is false when the name is not a known RQL node type.
func (n *Node) Type() (NodeType, bool) {
	if n == nil {
		return TypeUnknown, false
	}
	return LookupType(n.Name)
}

// Len returns the number of arguments.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Args)
}

// Arg returns the i-th argument, or nil when out of range.
func (n *Node) Arg(i int) Value {
	if n == nil || i < 0 || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

// ArgString returns the i-th argument rendered as a term, or "" when absent.
func (n *Node) ArgString(i int) string {
	v := n.Arg(i)
	if v == nil {
		return ""
	}
	return v.String()
}

// Children returns the arguments that are nested nodes, in order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, a := range n.Args {
		if child, ok := a.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// String renders the node back into RQL syntax.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n.Name == "" {
		// Unnamed root: bare comma-separated sequence.
		writeArgs(b, n.Args)
		return
	}
	b.WriteString(n.Name)
	b.WriteByte('(')
	writeArgs(b, n.Args)
	b.WriteByte(')')
}

func writeArgs(b *strings.Builder, args []Value) {
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeValue(b, a)
	}
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case *Node:
		writeNode(b, val)
	case List:
		b.WriteByte('(')
		writeArgs(b, val)
		b.WriteByte(')')
	default:
		b.WriteString(v.String())
	}
}

package querytree

import "reflect"

// And requires every non-nil node. Nil nodes are skipped, so the result may
// be an empty Bool.
func And(nodes ...Node) Bool {
	return Bool{Must: compact(nodes)}
}

// Or requires at least one non-nil node. Nil nodes are skipped, so the
// result may be an empty Bool.
func Or(nodes ...Node) Bool {
	return Bool{Should: compact(nodes)}
}

// Not negates n. A nil n yields nil: negating nothing contributes nothing.
func Not(n Node) Node {
	if n == nil {
		return nil
	}
	return Bool{MustNot: []Node{n}}
}

// IsEmptyBool reports whether n is a Bool with no clauses.
func IsEmptyBool(n Node) bool {
	switch b := n.(type) {
	case Bool:
		return b.IsEmpty()
	case *Bool:
		return b != nil && b.IsEmpty()
	}
	return false
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

func compact(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

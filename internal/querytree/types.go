package querytree

import "github.com/roach88/rqlsearch/internal/rql"

// Node is a query tree node.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	queryNode() // Marker method - seals interface to this package
}

// MatchAll matches every document.
type MatchAll struct{}

func (MatchAll) queryNode() {}

// Term matches documents whose field holds exactly Value.
type Term struct {
	Field string
	Value rql.Value
}

func (Term) queryNode() {}

// Terms matches documents whose field holds any of Values.
type Terms struct {
	Field  string
	Values []rql.Value
}

func (Terms) queryNode() {}

// Range matches documents whose field falls inside the window.
// A nil bound is absent. At least one bound should be set; Validate warns
// otherwise.
type Range struct {
	Field string
	GTE   rql.Value
	GT    rql.Value
	LTE   rql.Value
	LT    rql.Value
}

func (Range) queryNode() {}

// HasBound reports whether any bound is set.
func (r Range) HasBound() bool {
	return r.GTE != nil || r.GT != nil || r.LTE != nil || r.LT != nil
}

// Exists matches documents where the field has a value.
type Exists struct {
	Field string
}

func (Exists) queryNode() {}

// Field is a free-text target field with an optional boost.
// A zero Boost means unboosted.
type Field struct {
	Name  string
	Boost float64
}

// FullText is a query-string search. With no Fields the engine's default
// fields apply.
type FullText struct {
	Query  string
	Fields []Field
}

func (FullText) queryNode() {}

// Wildcard matches a field against a pattern using * and ?.
type Wildcard struct {
	Field   string
	Pattern string
}

func (Wildcard) queryNode() {}

// Bool combines clauses: every Must, at least one Should (when there is no
// Must), and no MustNot.
type Bool struct {
	Must    []Node
	Should  []Node
	MustNot []Node
}

func (Bool) queryNode() {}

// IsEmpty reports whether the Bool has no clauses at all.
func (b Bool) IsEmpty() bool {
	return len(b.Must) == 0 && len(b.Should) == 0 && len(b.MustNot) == 0
}

package rqlquery

import "github.com/roach88/rqlsearch/internal/querytree"

// Query is a compiled search query for one entity, or a combination of
// several.
type Query interface {
	// IsEmpty reports whether the query stands for "no query at all"
	// (see Empty). A compiled facade is never empty, even without a tree.
	IsEmpty() bool

	// HasLimit reports whether a limit(...) directive was given.
	HasLimit() bool
	From() int
	Size() int

	// HasQueryTree reports whether any clause compiled. Without a tree the
	// caller decides what to search (typically match-all).
	HasQueryTree() bool
	QueryTree() querytree.Node

	Sorts() []SortDirective

	// SourceFields returns the fields to fetch. restricted is false when no
	// select/fields directive was given (fetch everything); a restricted,
	// empty list means fetch no fields.
	SourceFields() (fields []string, restricted bool)

	// HasAggregate reports whether an aggregate(...) directive was given.
	HasAggregate() bool
	Aggregations() []string
	AggregationBuckets() []string
	QueryAggregationBuckets() []string

	TaxonomyTerms() TaxonomyTerms
}

// Empty is the explicitly empty query: the entity was not referenced.
type Empty struct{}

var _ Query = Empty{}

func (Empty) IsEmpty() bool                     { return true }
func (Empty) HasLimit() bool                    { return false }
func (Empty) From() int                         { return DefaultFrom }
func (Empty) Size() int                         { return DefaultSize }
func (Empty) HasQueryTree() bool                { return false }
func (Empty) QueryTree() querytree.Node         { return nil }
func (Empty) Sorts() []SortDirective            { return nil }
func (Empty) SourceFields() ([]string, bool)    { return nil, false }
func (Empty) HasAggregate() bool                { return false }
func (Empty) Aggregations() []string            { return nil }
func (Empty) AggregationBuckets() []string      { return nil }
func (Empty) QueryAggregationBuckets() []string { return nil }
func (Empty) TaxonomyTerms() TaxonomyTerms      { return NewTaxonomyTerms() }

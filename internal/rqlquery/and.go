package rqlquery

import "github.com/roach88/rqlsearch/internal/querytree"

// AndQuery combines several queries so that every one must match.
type AndQuery struct {
	queries []Query
}

var _ Query = (*AndQuery)(nil)

// Combine builds an AndQuery from queries. Nil and empty queries are
// dropped; the rest keep their input order.
func Combine(queries ...Query) *AndQuery {
	kept := make([]Query, 0, len(queries))
	for _, q := range queries {
		if q == nil || q.IsEmpty() {
			continue
		}
		kept = append(kept, q)
	}
	return &AndQuery{queries: kept}
}

// Queries returns the combined, non-empty queries.
func (a *AndQuery) Queries() []Query { return a.queries }

// IsEmpty is true when every input query was empty.
func (a *AndQuery) IsEmpty() bool { return len(a.queries) == 0 }

// HasLimit is true when any query declares a limit.
func (a *AndQuery) HasLimit() bool {
	_, ok := a.limited()
	return ok
}

// From returns the offset of the first query declaring a limit, or 0.
func (a *AndQuery) From() int {
	if q, ok := a.limited(); ok {
		return q.From()
	}
	return 0
}

// Size returns the count of the first query declaring a limit, or 0.
func (a *AndQuery) Size() int {
	if q, ok := a.limited(); ok {
		return q.Size()
	}
	return 0
}

func (a *AndQuery) limited() (Query, bool) {
	for _, q := range a.queries {
		if q.HasLimit() {
			return q, true
		}
	}
	return nil, false
}

// HasQueryTree is true when any query has a tree.
func (a *AndQuery) HasQueryTree() bool {
	for _, q := range a.queries {
		if q.HasQueryTree() {
			return true
		}
	}
	return false
}

// QueryTree requires the tree of every query that has one. Queries without
// a tree contribute nothing; they are not treated as match-all.
func (a *AndQuery) QueryTree() querytree.Node {
	var trees []querytree.Node
	for _, q := range a.queries {
		if q.HasQueryTree() {
			trees = append(trees, q.QueryTree())
		}
	}
	return querytree.And(trees...)
}

func (a *AndQuery) Sorts() []SortDirective {
	var out []SortDirective
	for _, q := range a.queries {
		out = append(out, q.Sorts()...)
	}
	return out
}

// SourceFields concatenates the fields of every query; the result is
// restricted when any query is restricted.
func (a *AndQuery) SourceFields() ([]string, bool) {
	var out []string
	restricted := false
	for _, q := range a.queries {
		fields, r := q.SourceFields()
		if r {
			restricted = true
			out = append(out, fields...)
		}
	}
	if restricted && out == nil {
		out = []string{}
	}
	return out, restricted
}

func (a *AndQuery) HasAggregate() bool {
	for _, q := range a.queries {
		if q.HasAggregate() {
			return true
		}
	}
	return false
}

func (a *AndQuery) Aggregations() []string {
	return a.concat(Query.Aggregations)
}

func (a *AndQuery) AggregationBuckets() []string {
	return a.concat(Query.AggregationBuckets)
}

func (a *AndQuery) QueryAggregationBuckets() []string {
	return a.concat(Query.QueryAggregationBuckets)
}

// TaxonomyTerms merges the terms of every query in order.
func (a *AndQuery) TaxonomyTerms() TaxonomyTerms {
	out := NewTaxonomyTerms()
	for _, q := range a.queries {
		out.Merge(q.TaxonomyTerms())
	}
	return out
}

func (a *AndQuery) concat(get func(Query) []string) []string {
	var out []string
	for _, q := range a.queries {
		out = append(out, get(q)...)
	}
	return out
}

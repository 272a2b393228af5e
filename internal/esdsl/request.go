package esdsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/rqlquery"
)

// Scope selects what a search request fetches.
type Scope string

const (
	// ScopeDetail fetches documents.
	ScopeDetail Scope = "detail"
	// ScopeDigest fetches counts and aggregations only.
	ScopeDigest Scope = "digest"
	// ScopeAggregation fetches aggregations only, without sources.
	ScopeAggregation Scope = "aggregation"
)

// ParseScope returns the scope named s.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeDetail, ScopeDigest, ScopeAggregation:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q: expected detail, digest or aggregation", s)
}

// RequestOptions configures BuildRequest.
type RequestOptions struct {
	Query rqlquery.Query
	Scope Scope

	// Filter, when set, must match as well as the query.
	Filter querytree.Node

	// MandatorySourceFields are added to a restricted, non-empty source list.
	MandatorySourceFields []string

	// Aggregations are added next to the global total count.
	Aggregations map[string]aggspec.Spec
}

// BuildRequest assembles a search request body.
//
// A missing or empty query searches everything. Sources are not fetched in
// the aggregation scope or when the query selects no fields. Results are
// sorted by the query's sorts, else by score. Documents are only requested
// in the detail scope.
func BuildRequest(opts RequestOptions) (map[string]any, error) {
	q := opts.Query
	if q == nil {
		q = rqlquery.Empty{}
	}
	scope := opts.Scope
	if scope == "" {
		scope = ScopeDetail
	}

	var tree querytree.Node = querytree.MatchAll{}
	if !q.IsEmpty() && q.HasQueryTree() {
		tree = q.QueryTree()
	}
	if opts.Filter != nil {
		tree = querytree.And(tree, opts.Filter)
	}
	query, err := Compile(tree)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	size := 0
	if scope == ScopeDetail {
		size = q.Size()
	}
	body := map[string]any{
		"query":            query,
		"from":             q.From(),
		"size":             size,
		"track_total_hits": true,
	}

	if source, ok := sourceConfig(q, scope, opts.MandatorySourceFields); ok {
		body["_source"] = source
	}

	if sorts := q.Sorts(); len(sorts) > 0 {
		body["sort"] = Sorts(sorts)
	} else {
		body["sort"] = ScoreSort()
	}

	aggs := Aggregations(opts.Aggregations)
	aggs[TotalCountAggregation] = map[string]any{"global": map[string]any{}}
	body["aggs"] = aggs

	return body, nil
}

func sourceConfig(q rqlquery.Query, scope Scope, mandatory []string) (any, bool) {
	if scope == ScopeAggregation {
		return false, true
	}
	fields, restricted := q.SourceFields()
	if !restricted {
		return nil, false
	}
	if len(fields) == 0 {
		return false, true
	}
	includes := slices.Clone(fields)
	for _, m := range mandatory {
		if !slices.Contains(includes, m) {
			includes = append(includes, m)
		}
	}
	return map[string]any{"includes": includes}, true
}

// Marshal renders v as indented JSON with sorted object keys and no HTML
// escaping. The output ends with a newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal dsl: %w", err)
	}
	return buf.Bytes(), nil
}

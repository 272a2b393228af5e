package esdsl

import "github.com/roach88/rqlsearch/internal/rqlquery"

// Sort orders and hints.
const (
	OrderAsc     = "asc"
	OrderDesc    = "desc"
	MissingLast  = "_last"
	ScoreSortKey = rqlquery.ScoreField
)

// Sorts converts sort directives into the DSL sort list, preserving order.
func Sorts(directives []rqlquery.SortDirective) []any {
	out := make([]any, 0, len(directives))
	for _, d := range directives {
		opts := map[string]any{"order": OrderAsc}
		if !d.Ascending {
			opts["order"] = OrderDesc
		}
		if d.MissingLast {
			opts["missing"] = MissingLast
		}
		if d.UnmappedType != "" {
			opts["unmapped_type"] = d.UnmappedType
		}
		out = append(out, map[string]any{d.Field: opts})
	}
	return out
}

// ScoreSort is the default sort: relevance, best first.
func ScoreSort() []any {
	return []any{map[string]any{ScoreSortKey: map[string]any{"order": OrderDesc}}}
}

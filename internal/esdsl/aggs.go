package esdsl

import "github.com/roach88/rqlsearch/internal/aggspec"

// TotalCountAggregation names the global aggregation counting every
// document regardless of the query.
const TotalCountAggregation = "totalCount"

// Aggregations converts aggregation specs into the DSL "aggs" object.
func Aggregations(specs map[string]aggspec.Spec) map[string]any {
	out := make(map[string]any, len(specs))
	for name, s := range specs {
		out[name] = aggregation(s)
	}
	return out
}

func aggregation(s aggspec.Spec) map[string]any {
	var out map[string]any
	switch s.Kind {
	case aggspec.KindStats:
		out = map[string]any{"stats": map[string]any{"field": s.Field}}
	case aggspec.KindRange:
		ranges := make([]any, len(s.Ranges))
		for i, b := range s.Ranges {
			r := make(map[string]any, 2)
			if b.From != nil {
				r["from"] = *b.From
			}
			if b.To != nil {
				r["to"] = *b.To
			}
			ranges[i] = r
		}
		out = map[string]any{"range": map[string]any{"field": s.Field, "ranges": ranges}}
	default:
		out = map[string]any{"terms": map[string]any{
			"field":         s.Field,
			"size":          s.Size,
			"min_doc_count": s.MinDocCount,
		}}
	}
	if s.HasChildren() {
		out["aggs"] = Aggregations(s.Children)
	}
	return out
}

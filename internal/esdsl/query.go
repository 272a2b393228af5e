package esdsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/rql"
)

// Compile converts a query tree into its DSL form.
func Compile(n querytree.Node) (map[string]any, error) {
	switch q := n.(type) {
	case nil:
		return nil, fmt.Errorf("cannot compile nil query node")
	case querytree.MatchAll:
		return map[string]any{"match_all": map[string]any{}}, nil
	case querytree.Term:
		return map[string]any{"term": map[string]any{q.Field: value(q.Value)}}, nil
	case querytree.Terms:
		values := make([]any, len(q.Values))
		for i, v := range q.Values {
			values[i] = value(v)
		}
		return map[string]any{"terms": map[string]any{q.Field: values}}, nil
	case querytree.Range:
		return compileRange(q), nil
	case querytree.Exists:
		return map[string]any{"exists": map[string]any{"field": q.Field}}, nil
	case querytree.FullText:
		return compileFullText(q), nil
	case querytree.Wildcard:
		return map[string]any{"wildcard": map[string]any{q.Field: map[string]any{"value": q.Pattern}}}, nil
	case querytree.Bool:
		return compileBool(q)
	case *querytree.Bool:
		if q == nil {
			return nil, fmt.Errorf("cannot compile nil query node")
		}
		return compileBool(*q)
	default:
		return nil, fmt.Errorf("unsupported query node: %T", n)
	}
}

func compileRange(r querytree.Range) map[string]any {
	bounds := make(map[string]any, 2)
	for key, v := range map[string]rql.Value{"gte": r.GTE, "gt": r.GT, "lte": r.LTE, "lt": r.LT} {
		if v != nil {
			bounds[key] = value(v)
		}
	}
	return map[string]any{"range": map[string]any{r.Field: bounds}}
}

func compileFullText(f querytree.FullText) map[string]any {
	body := map[string]any{"query": f.Query}
	if len(f.Fields) > 0 {
		fields := make([]any, len(f.Fields))
		for i, field := range f.Fields {
			fields[i] = formatField(field)
		}
		body["fields"] = fields
	}
	return map[string]any{"query_string": body}
}

// formatField renders a boosted field as "name^boost". Boosts always carry
// a decimal point ("^5.0").
func formatField(f querytree.Field) string {
	if f.Boost == 0 {
		return f.Name
	}
	boost := strconv.FormatFloat(f.Boost, 'f', -1, 64)
	if !strings.Contains(boost, ".") {
		boost += ".0"
	}
	return f.Name + "^" + boost
}

func compileBool(b querytree.Bool) (map[string]any, error) {
	body := make(map[string]any, 3)
	for key, clauses := range map[string][]querytree.Node{"must": b.Must, "should": b.Should, "must_not": b.MustNot} {
		if len(clauses) == 0 {
			continue
		}
		compiled := make([]any, len(clauses))
		for i, c := range clauses {
			q, err := Compile(c)
			if err != nil {
				return nil, fmt.Errorf("compile %s[%d]: %w", key, i, err)
			}
			compiled[i] = q
		}
		body[key] = compiled
	}
	return map[string]any{"bool": body}, nil
}

// value converts an RQL scalar into its JSON form.
func value(v rql.Value) any {
	switch val := v.(type) {
	case rql.String:
		return string(val)
	case rql.Int:
		return int64(val)
	case rql.Float:
		return float64(val)
	case rql.Bool:
		return bool(val)
	case rql.Null:
		return nil
	case rql.List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = value(elem)
		}
		return out
	case nil:
		return nil
	default:
		return v.String()
	}
}

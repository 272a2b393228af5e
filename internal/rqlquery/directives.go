package rqlquery

import (
	"strconv"
	"strings"

	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
)

// Pagination defaults applied when no limit(...) directive is given.
const (
	DefaultFrom = 0
	DefaultSize = 10
)

// Sort hints.
const (
	ScoreField         = "_score"
	UnmappedTypeString = "string"
)

// SortDirective orders results on one field. Directives are significant in
// order: the first is the primary sort.
type SortDirective struct {
	Field        string
	Ascending    bool
	MissingLast  bool   // documents without the field sort after the rest
	UnmappedType string // type assumed where the field is not mapped
}

// CompileSort compiles sort(f1, -f2, +f3). A "-" prefix sorts descending,
// "+" or no prefix ascending. Fields resolve through the exact-match
// variant. Every field except _score sorts missing values last and treats
// unmapped fields as strings.
func CompileSort(n *rql.Node, r resolver.FieldResolver) []SortDirective {
	out := make([]SortDirective, 0, n.Len())
	for _, arg := range n.Args {
		key := arg.String()
		ascending := true
		switch {
		case strings.HasPrefix(key, "-"):
			ascending = false
			key = key[1:]
		case strings.HasPrefix(key, "+"):
			key = key[1:]
		}

		d := SortDirective{
			Field:     r.ResolveUnanalyzed(key).Field,
			Ascending: ascending,
		}
		if d.Field != ScoreField {
			d.MissingLast = true
			d.UnmappedType = UnmappedTypeString
		}
		out = append(out, d)
	}
	return out
}

// CompileLimit compiles limit(from[, size]). Non-numeric arguments fall
// back to the defaults.
func CompileLimit(n *rql.Node) (from, size int) {
	from = toInt(n.Arg(0), DefaultFrom)
	size = toInt(n.Arg(1), DefaultSize)
	return from, size
}

func toInt(v rql.Value, fallback int) int {
	switch val := v.(type) {
	case rql.Int:
		return int(val)
	case rql.Float:
		return int(val)
	case rql.String:
		if i, err := strconv.Atoi(string(val)); err == nil {
			return i
		}
	}
	return fallback
}

// CompileAggregate compiles aggregate(f1, f2, bucket(b1), re(f3)).
//
// Bare string arguments and re(...) arguments name aggregation fields;
// bucket(...) arguments name bucket (grouping) fields. Every name resolves
// to its exact-match variant. Zero arguments is valid and yields two empty lists.
func CompileAggregate(n *rql.Node, r resolver.FieldResolver) (aggregations, buckets []string) {
	aggregations = []string{}
	buckets = []string{}
	for _, arg := range n.Args {
		switch val := arg.(type) {
		case rql.String:
			aggregations = append(aggregations, r.ResolveUnanalyzed(string(val)).Field)
		case *rql.Node:
			typ, _ := val.Type()
			switch typ {
			case rql.TypeBucket:
				for _, b := range val.Args {
					buckets = append(buckets, r.ResolveUnanalyzed(b.String()).Field)
				}
			case rql.TypeRe:
				for _, a := range val.Args {
					aggregations = append(aggregations, r.ResolveUnanalyzed(a.String()).Field)
				}
			}
		}
	}
	return aggregations, buckets
}

// CompileFields compiles select(...) or fields(...) into a source-field
// list. Lists are flattened. The result is never nil: fields() and
// fields(()) both mean "fetch no fields".
func CompileFields(n *rql.Node) []string {
	out := []string{}
	for _, arg := range n.Args {
		out = append(out, rql.Strings(arg)...)
	}
	return out
}

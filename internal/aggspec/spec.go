package aggspec

import "strings"

// Kind is the aggregation type.
type Kind string

const (
	KindTerms Kind = "terms"
	KindStats Kind = "stats"
	KindRange Kind = "range"
)

// TermsSize is the bucket count requested for terms aggregations.
const TermsSize = 32767

// Bucket is one window of a range aggregation. A nil bound is open; at
// least one bound is set.
type Bucket struct {
	From *float64
	To   *float64
}

// Spec is one named aggregation, possibly with nested children.
type Spec struct {
	Name        string
	Kind        Kind
	Field       string
	Ranges      []Bucket // range kind only
	Size        int      // terms kind only
	MinDocCount int      // terms kind only
	Children    map[string]Spec
}

// HasChildren reports whether sub-aggregations are attached.
func (s Spec) HasChildren() bool {
	return len(s.Children) > 0
}

// Select keeps the specs whose field is one of fields. A localized spec
// matches its unlocalized field name. No fields keeps everything.
func Select(specs map[string]Spec, fields []string) map[string]Spec {
	if len(fields) == 0 {
		return specs
	}
	out := make(map[string]Spec, len(fields))
	for name, s := range specs {
		for _, f := range fields {
			if s.Field == f || strings.HasPrefix(s.Field, f+".") {
				out[name] = s
				break
			}
		}
	}
	return out
}

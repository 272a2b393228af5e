package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/rqlsearch/internal/join"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rqlquery"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Entity   string // empty for join-level checks
	Check    string // e.g. "has_query", "query"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	if e.Entity != "" {
		fmt.Fprintf(&buf, "%s: ", e.Entity)
	}
	fmt.Fprintf(&buf, "expectation failed: %s\n", e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations checks a split expression and its compiled bodies
// against the scenario and returns a message per failed expectation.
func EvaluateExpectations(s *Scenario, split *join.Result, result *Result) []string {
	var errs []error

	if s.ExpectLocale != "" && s.ExpectLocale != split.Locale() {
		errs = append(errs, &AssertionError{
			Check:    "expect_locale",
			Expected: s.ExpectLocale,
			Actual:   split.Locale(),
		})
	}
	if s.ExpectFacets != nil && *s.ExpectFacets != split.WithFacets() {
		errs = append(errs, &AssertionError{
			Check:    "expect_facets",
			Expected: fmt.Sprint(*s.ExpectFacets),
			Actual:   fmt.Sprint(split.WithFacets()),
		})
	}

	for _, e := range s.Expect {
		entity, _ := resolver.ParseEntity(e.Entity)
		body, _ := result.Bodies[string(entity)].(map[string]any)
		errs = append(errs, checkEntity(e, split.Query(entity), body)...)
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

func checkEntity(e Expectation, q rqlquery.Query, body map[string]any) []error {
	var errs []error
	fail := func(check string, expected, actual any) {
		errs = append(errs, &AssertionError{
			Entity:   e.Entity,
			Check:    check,
			Expected: render(expected),
			Actual:   render(actual),
		})
	}

	if e.Empty != nil && *e.Empty != q.IsEmpty() {
		fail("empty", *e.Empty, q.IsEmpty())
	}
	if q.IsEmpty() {
		// Nothing else is meaningful for an absent entity.
		return errs
	}

	if e.HasQuery != nil && *e.HasQuery != q.HasQueryTree() {
		fail("has_query", *e.HasQuery, q.HasQueryTree())
	}
	if e.From != nil && *e.From != q.From() {
		fail("from", *e.From, q.From())
	}
	if e.Size != nil && *e.Size != q.Size() {
		fail("size", *e.Size, q.Size())
	}
	if e.TaxonomyTerms != nil {
		actual := map[string]map[string][]string(q.TaxonomyTerms())
		if !termsEqual(e.TaxonomyTerms, actual) {
			fail("taxonomy_terms", e.TaxonomyTerms, actual)
		}
	}
	if e.SourceFields != nil {
		fields, _ := q.SourceFields()
		if !slices.Equal(e.SourceFields, fields) {
			fail("source_fields", e.SourceFields, fields)
		}
	}
	if e.Sorts != nil {
		actual := formatSorts(q.Sorts())
		if !slices.Equal(e.Sorts, actual) {
			fail("sorts", e.Sorts, actual)
		}
	}
	if e.Query != nil {
		expected, err := normalize(e.Query)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: query: %w", e.Entity, err))
		} else if !matchSubset(body["query"], expected) {
			fail("query", expected, body["query"])
		}
	}
	return errs
}

// formatSorts renders sorts as "field" or "-field".
func formatSorts(sorts []rqlquery.SortDirective) []string {
	out := make([]string, len(sorts))
	for i, s := range sorts {
		if s.Ascending {
			out[i] = s.Field
		} else {
			out[i] = "-" + s.Field
		}
	}
	return out
}

func termsEqual(expected, actual map[string]map[string][]string) bool {
	if len(expected) == 0 && len(actual) == 0 {
		return true
	}
	return reflect.DeepEqual(expected, actual)
}

// matchSubset reports whether every key of expected is present in actual
// with a matching value. Objects match as subsets, arrays element by
// element with equal length, scalars by equality.
func matchSubset(actual, expected any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for key, ev := range exp {
			av, exists := act[key]
			if !exists || !matchSubset(av, ev) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if !matchSubset(act[i], exp[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(actual, expected)
	}
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

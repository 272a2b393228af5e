package rqlquery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
	"github.com/roach88/rqlsearch/internal/taxonomy"
)

// newTestResolver returns a variable-entity resolver with one attribute
// taxonomy, two boosted fields, a range-typed "size" field and a localized
// "title" field with an analyzed sub-field.
func newTestResolver() *resolver.Mapping {
	return resolver.NewMapping(resolver.MappingOptions{
		Entity: resolver.EntityVariable,
		Locale: "en",
		Taxonomies: []taxonomy.Taxonomy{
			{
				Name: "Mlstr_area",
				Vocabularies: []taxonomy.Vocabulary{
					{Name: "Diseases", Terms: []taxonomy.Term{{Name: "Cancer"}, {Name: "Diabetes"}}},
					{Name: "Age", Attributes: map[string]string{"range": "true"}},
				},
			},
		},
		AnalyzedFields: []string{"acronym", "name"},
		Rules: map[string]resolver.FieldRule{
			"size":  {Field: "stats.size", Range: true},
			"title": {Analyzed: true, Localized: true},
		},
	})
}

// compile parses text and compiles it as a single clause.
func compile(t *testing.T, text string) (querytree.Node, TaxonomyTerms) {
	t.Helper()
	terms := NewTaxonomyTerms()
	tree, err := CompileNode(rql.MustParse(text), newTestResolver(), terms)
	require.NoError(t, err)
	return tree, terms
}

func term(field string, v rql.Value) querytree.Term {
	return querytree.Term{Field: field, Value: v}
}

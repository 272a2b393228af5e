package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rqlsearch/internal/taxonomy"
)

func testTaxonomies() []taxonomy.Taxonomy {
	return []taxonomy.Taxonomy{
		{
			Name: "Mlstr_area",
			Vocabularies: []taxonomy.Vocabulary{
				{Name: "Diseases", Terms: []taxonomy.Term{{Name: "Cancer"}, {Name: "Diabetes"}}},
				{Name: "Age", Attributes: map[string]string{"range": "true"}},
			},
		},
		{
			Name: "Mica_study",
			Vocabularies: []taxonomy.Vocabulary{
				{Name: "populations-selectionCriteria-countriesIso"},
				{Name: "name", Localized: true},
				{Name: "start", Attributes: map[string]string{"field": "model.startYear", "range": "true"}},
			},
		},
	}
}

func TestMapping_VariableAttributeFields(t *testing.T) {
	m := NewMapping(MappingOptions{Entity: EntityVariable, Taxonomies: testTaxonomies()})

	data := m.Resolve("Mlstr_area.Diseases")
	assert.Equal(t, "attributes.Mlstr_area__Diseases.und", data.Field)
	assert.False(t, data.IsRange)

	data = m.Resolve("Mlstr_area.Age")
	assert.Equal(t, "attributes.Mlstr_area__Age.und", data.Field)
	assert.True(t, data.IsRange)
}

func TestMapping_NonVariableVocabularies(t *testing.T) {
	m := NewMapping(MappingOptions{Entity: EntityStudy, Locale: "fr", Taxonomies: testTaxonomies()})

	assert.Equal(t, "populations.selectionCriteria.countriesIso",
		m.Resolve("Mica_study.populations-selectionCriteria-countriesIso").Field)
	assert.Equal(t, "name.fr", m.Resolve("Mica_study.name").Field)

	start := m.Resolve("Mica_study.start")
	assert.Equal(t, "model.startYear", start.Field)
	assert.True(t, start.IsRange)
}

func TestMapping_UnknownFieldsPassThrough(t *testing.T) {
	m := NewMapping(MappingOptions{Entity: EntityStudy, Taxonomies: testTaxonomies()})

	assert.Equal(t, FieldData{Field: "id"}, m.Resolve("id"))
	assert.Equal(t, FieldData{Field: "Unknown.voc"}, m.Resolve("Unknown.voc"))
	assert.Equal(t, FieldData{Field: "Mica_study.nope"}, m.Resolve("Mica_study.nope"))
}

func TestMapping_RulesAndAnalyzedVariant(t *testing.T) {
	m := NewMapping(MappingOptions{
		Entity: EntityNetwork,
		Locale: "en",
		Rules: map[string]FieldRule{
			"name":    {Localized: true, Analyzed: true},
			"acronym": {Field: "acronym", Localized: true},
			"size":    {Field: "stats.size", Range: true},
		},
	})

	assert.Equal(t, "name.en.analyzed", m.Resolve("name").Field)
	assert.Equal(t, "name.en", m.ResolveUnanalyzed("name").Field)
	assert.Equal(t, "acronym.en", m.Resolve("acronym").Field)
	assert.Equal(t, FieldData{Field: "stats.size", IsRange: true}, m.Resolve("size"))
}

func TestMapping_DefaultsAndCopies(t *testing.T) {
	analyzed := []string{"name"}
	m := NewMapping(MappingOptions{Entity: EntityDataset, AnalyzedFields: analyzed})
	analyzed[0] = "mutated"

	assert.Equal(t, "en", m.Locale())
	assert.Equal(t, EntityDataset, m.Entity())
	assert.Equal(t, []string{"name"}, m.AnalyzedFields())
	assert.Empty(t, m.Taxonomies())
}

func TestParseEntity(t *testing.T) {
	e, ok := ParseEntity("Network")
	require.True(t, ok)
	assert.Equal(t, EntityNetwork, e)

	_, ok = ParseEntity("file")
	assert.False(t, ok)
}

// Package taxonomy holds the read-only classification metadata used by
// field resolution and taxonomy-term bookkeeping.
//
// A taxonomy is a named set of vocabularies; a vocabulary is a named set of
// terms. Taxonomies are loaded once from YAML and shared by reference across
// compilations. Nothing in this module mutates them after loading.
package taxonomy

import "strings"

// Attribute names recognised on vocabularies.
const (
	AttrField = "field" // overrides the indexed field name
	AttrRange = "range" // "true" marks a numeric range vocabulary
	AttrType  = "type"  // informational value type (integer, decimal, string)
)

// Taxonomy is a named collection of vocabularies.
type Taxonomy struct {
	Name         string       `yaml:"name"`
	Title        string       `yaml:"title,omitempty"`
	Vocabularies []Vocabulary `yaml:"vocabularies"`
}

// Vocabulary is a named collection of terms within a taxonomy.
type Vocabulary struct {
	Name       string            `yaml:"name"`
	Localized  bool              `yaml:"localized,omitempty"`
	Terms      []Term            `yaml:"terms,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Term is a single classification value.
type Term struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
}

// Vocabulary returns the named vocabulary and whether it exists.
func (t Taxonomy) Vocabulary(name string) (Vocabulary, bool) {
	for _, v := range t.Vocabularies {
		if v.Name == name {
			return v, true
		}
	}
	return Vocabulary{}, false
}

// HasVocabulary reports whether the taxonomy defines the named vocabulary.
func (t Taxonomy) HasVocabulary(name string) bool {
	_, ok := t.Vocabulary(name)
	return ok
}

// Attribute returns the value of a vocabulary attribute, or "" when unset.
func (v Vocabulary) Attribute(name string) string {
	return v.Attributes[name]
}

// Field returns the explicit field override, or "" when the vocabulary uses
// its default mapping.
func (v Vocabulary) Field() string {
	return v.Attribute(AttrField)
}

// IsRange reports whether values of this vocabulary are "from:to" windows.
func (v Vocabulary) IsRange() bool {
	return strings.EqualFold(v.Attribute(AttrRange), "true")
}

// HasTerms reports whether the vocabulary carries a fixed term list.
func (v Vocabulary) HasTerms() bool {
	return len(v.Terms) > 0
}

// TermNames returns the names of the vocabulary's terms in order.
func (v Vocabulary) TermNames() []string {
	if len(v.Terms) == 0 {
		return nil
	}
	names := make([]string, len(v.Terms))
	for i, term := range v.Terms {
		names[i] = term.Name
	}
	return names
}

// Find looks up a vocabulary by taxonomy and vocabulary name across a set
// of taxonomies.
func Find(taxonomies []Taxonomy, taxonomyName, vocabularyName string) (Vocabulary, bool) {
	for _, t := range taxonomies {
		if t.Name != taxonomyName {
			continue
		}
		if v, ok := t.Vocabulary(vocabularyName); ok {
			return v, true
		}
	}
	return Vocabulary{}, false
}

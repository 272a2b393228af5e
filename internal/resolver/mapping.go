package resolver

import (
	"strings"

	"github.com/roach88/rqlsearch/internal/taxonomy"
)

// Entity names the searchable document types.
type Entity string

const (
	EntityVariable Entity = "variable"
	EntityDataset  Entity = "dataset"
	EntityStudy    Entity = "study"
	EntityNetwork  Entity = "network"
)

// Entities lists every entity type in join order.
var Entities = []Entity{EntityVariable, EntityDataset, EntityStudy, EntityNetwork}

// ParseEntity returns the entity for name and whether it is known.
func ParseEntity(name string) (Entity, bool) {
	for _, e := range Entities {
		if strings.EqualFold(string(e), name) {
			return e, true
		}
	}
	return "", false
}

// Field suffixes used by the index layout.
const (
	AnalyzedSuffix = ".analyzed"
	UndLocale      = "und"
	AttributesPath = "attributes."
)

// FieldRule overrides resolution for one logical field.
type FieldRule struct {
	Field     string // indexed name; defaults to the logical name
	Analyzed  bool   // an ".analyzed" sub-field exists for free-text
	Range     bool
	Localized bool // the field is suffixed with the current locale
}

// Mapping resolves fields from taxonomies and explicit rules.
//
// Resolution of a logical field "tax.voc":
//  1. An explicit FieldRule for the logical name wins.
//  2. Otherwise, when "tax" is a known taxonomy defining "voc", the
//     vocabulary decides: its "field" attribute if set; else, for the
//     variable entity, "attributes.tax__voc.und"; else "voc" with "-"
//     replaced by ".". Localized vocabularies get ".<locale>" appended
//     (attribute fields already carry their locale).
//  3. Otherwise the logical name passes through unchanged.
//
// Resolve additionally appends ".analyzed" when the rule says so.
type Mapping struct {
	entity     Entity
	locale     string
	taxonomies []taxonomy.Taxonomy
	analyzed   []string
	rules      map[string]FieldRule
}

// MappingOptions configures a Mapping.
type MappingOptions struct {
	Entity         Entity
	Locale         string
	Taxonomies     []taxonomy.Taxonomy
	AnalyzedFields []string
	Rules          map[string]FieldRule
}

// NewMapping creates a Mapping. Slices and maps are copied so later
// mutation by the caller cannot leak into resolution.
func NewMapping(opts MappingOptions) *Mapping {
	rules := make(map[string]FieldRule, len(opts.Rules))
	for k, v := range opts.Rules {
		rules[k] = v
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	return &Mapping{
		entity:     opts.Entity,
		locale:     locale,
		taxonomies: append([]taxonomy.Taxonomy(nil), opts.Taxonomies...),
		analyzed:   append([]string(nil), opts.AnalyzedFields...),
		rules:      rules,
	}
}

// Entity returns the entity this mapping resolves for.
func (m *Mapping) Entity() Entity { return m.entity }

// Locale returns the locale used for localized fields.
func (m *Mapping) Locale() string { return m.locale }

// Taxonomies implements FieldResolver.
func (m *Mapping) Taxonomies() []taxonomy.Taxonomy { return m.taxonomies }

// AnalyzedFields implements FieldResolver.
func (m *Mapping) AnalyzedFields() []string { return m.analyzed }

// Resolve implements FieldResolver.
func (m *Mapping) Resolve(field string) FieldData {
	data, analyzed := m.resolve(field)
	if analyzed {
		data.Field += AnalyzedSuffix
	}
	return data
}

// ResolveUnanalyzed implements FieldResolver.
func (m *Mapping) ResolveUnanalyzed(field string) FieldData {
	data, _ := m.resolve(field)
	return data
}

func (m *Mapping) resolve(field string) (FieldData, bool) {
	if rule, ok := m.rules[field]; ok {
		name := rule.Field
		if name == "" {
			name = field
		}
		if rule.Localized {
			name += "." + m.locale
		}
		return FieldData{Field: name, IsRange: rule.Range}, rule.Analyzed
	}

	taxName, vocName, ok := strings.Cut(field, ".")
	if !ok {
		return FieldData{Field: field}, false
	}
	vocabulary, found := taxonomy.Find(m.taxonomies, taxName, vocName)
	if !found {
		return FieldData{Field: field}, false
	}

	var name string
	switch {
	case vocabulary.Field() != "":
		name = vocabulary.Field()
		if vocabulary.Localized {
			name += "." + m.locale
		}
	case m.entity == EntityVariable:
		key := taxonomy.AttributeKey{Namespace: taxName, Name: vocName}
		name = AttributesPath + key.MapKey() + "." + UndLocale
	default:
		name = strings.ReplaceAll(vocName, "-", ".")
		if vocabulary.Localized {
			name += "." + m.locale
		}
	}
	return FieldData{Field: name, IsRange: vocabulary.IsRange()}, false
}

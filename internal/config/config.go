// Package config loads the rqlsearch configuration file.
//
// The file is CUE, unified with the embedded #Config schema, so defaults and
// type errors come from CUE itself. Taxonomy files referenced by the
// configuration are YAML and resolved relative to the configuration file.
package config

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/spf13/afero"
	"golang.org/x/text/language"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/taxonomy"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "rqlsearch.cue"

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Locale      string                  `json:"locale"`
	Locales     []string                `json:"locales"`
	MinDocCount int                     `json:"minDocCount"`
	Entities    map[string]EntityConfig `json:"entities"`

	// dir is the directory relative taxonomy paths resolve against.
	dir string
}

// EntityConfig configures one entity type.
type EntityConfig struct {
	Taxonomies            []string                     `json:"taxonomies"`
	Analyzed              []string                     `json:"analyzed"`
	MandatorySourceFields []string                     `json:"mandatorySourceFields"`
	Fields                map[string]FieldConfig       `json:"fields"`
	Aggregations          map[string]string            `json:"aggregations"`
	SubAggregations       map[string]map[string]string `json:"subAggregations"`
}

// FieldConfig maps one logical field.
type FieldConfig struct {
	Field     string `json:"field,omitempty"`
	Analyzed  bool   `json:"analyzed,omitempty"`
	Range     bool   `json:"range,omitempty"`
	Localized bool   `json:"localized,omitempty"`
}

// Error codes for LoadError.
const (
	ErrCodeRead     = "E201" // file could not be read
	ErrCodeSyntax   = "E202" // CUE syntax error
	ErrCodeSchema   = "E203" // configuration does not satisfy #Config
	ErrCodeLocale   = "E204" // invalid BCP 47 locale
	ErrCodeTaxonomy = "E205" // taxonomy file missing or invalid
)

// LoadError reports an invalid configuration.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and validates the configuration at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("read config: %v", err)}
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse validates CUE source against the schema and decodes it. filename
// is used in positions only.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeSyntax, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	cfg := &Config{}
	if err := unified.Decode(cfg); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}
	if err := cfg.validateLocales(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

func (c *Config) validateLocales() error {
	for _, l := range append([]string{c.Locale}, c.Locales...) {
		if _, err := language.Parse(l); err != nil {
			return &LoadError{Code: ErrCodeLocale, Message: fmt.Sprintf("invalid locale %q: %v", l, err)}
		}
	}
	return nil
}

// Entity returns the configuration of entity. Unconfigured entities get
// the zero EntityConfig: fields pass through unresolved.
func (c *Config) Entity(entity resolver.Entity) EntityConfig {
	return c.Entities[string(entity)]
}

// TaxonomyPaths returns the entity's taxonomy files resolved against the
// configuration directory.
func (c *Config) TaxonomyPaths(entity resolver.Entity) []string {
	paths := c.Entity(entity).Taxonomies
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) || c.dir == "" {
			out[i] = p
		} else {
			out[i] = filepath.Join(c.dir, p)
		}
	}
	return out
}

// LoadTaxonomies loads the taxonomy files of entity.
func (c *Config) LoadTaxonomies(fs afero.Fs, entity resolver.Entity) ([]taxonomy.Taxonomy, error) {
	taxonomies, err := taxonomy.LoadAll(fs, c.TaxonomyPaths(entity))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeTaxonomy, Message: err.Error()}
	}
	return taxonomies, nil
}

// Resolver builds the field resolver for entity in locale. An empty locale
// means the configured default.
func (c *Config) Resolver(fs afero.Fs, entity resolver.Entity, locale string) (*resolver.Mapping, error) {
	taxonomies, err := c.LoadTaxonomies(fs, entity)
	if err != nil {
		return nil, err
	}
	return c.mapping(entity, locale, taxonomies), nil
}

// ResolverFactory loads every entity's taxonomies once and returns a
// factory building resolvers from them in any locale.
func (c *Config) ResolverFactory(fs afero.Fs) (func(resolver.Entity, string) (resolver.FieldResolver, error), error) {
	loaded := make(map[resolver.Entity][]taxonomy.Taxonomy, len(resolver.Entities))
	for _, e := range resolver.Entities {
		taxonomies, err := c.LoadTaxonomies(fs, e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e, err)
		}
		loaded[e] = taxonomies
	}
	return func(entity resolver.Entity, locale string) (resolver.FieldResolver, error) {
		return c.mapping(entity, locale, loaded[entity]), nil
	}, nil
}

func (c *Config) mapping(entity resolver.Entity, locale string, taxonomies []taxonomy.Taxonomy) *resolver.Mapping {
	if locale == "" {
		locale = c.Locale
	}
	ec := c.Entity(entity)
	rules := make(map[string]resolver.FieldRule, len(ec.Fields))
	for name, f := range ec.Fields {
		rules[name] = resolver.FieldRule{
			Field:     f.Field,
			Analyzed:  f.Analyzed,
			Range:     f.Range,
			Localized: f.Localized,
		}
	}
	return resolver.NewMapping(resolver.MappingOptions{
		Entity:         entity,
		Locale:         locale,
		Taxonomies:     taxonomies,
		AnalyzedFields: ec.Analyzed,
		Rules:          rules,
	})
}

// AggregationParser returns a parser using the configured locales and
// minimum document count.
func (c *Config) AggregationParser() aggspec.Parser {
	return aggspec.Parser{Locales: c.Locales, MinDocCount: c.MinDocCount}
}

// Aggregations parses the entity's aggregation table. Each bucket field
// nests the whole table; configured sub-aggregation tables take precedence.
func (c *Config) Aggregations(entity resolver.Entity, buckets []string) (map[string]aggspec.Spec, error) {
	ec := c.Entity(entity)
	sub := aggspec.BucketTables(buckets, ec.Aggregations)
	if len(ec.SubAggregations) > 0 {
		if sub == nil {
			sub = make(map[string]map[string]string, len(ec.SubAggregations))
		}
		for field, table := range ec.SubAggregations {
			sub[field] = table
		}
	}
	specs, err := c.AggregationParser().Parse(ec.Aggregations, sub)
	if err != nil {
		return nil, fmt.Errorf("%s aggregations: %w", entity, err)
	}
	return specs, nil
}

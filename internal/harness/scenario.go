package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/rqlsearch/internal/esdsl"
	"github.com/roach88/rqlsearch/internal/resolver"
)

// Scenario defines a conformance test scenario: one RQL expression and
// expectations on what it compiles into.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the path of an rqlsearch.cue file, relative to the
	// scenario file. Exclusive with Resolver.
	Config string `yaml:"config,omitempty"`

	// Resolver is an inline field mapping applied to every entity.
	// Without Config or Resolver, fields pass through unresolved.
	Resolver *ResolverSpec `yaml:"resolver,omitempty"`

	// Locale is the default locale when the expression has no locale(...).
	Locale string `yaml:"locale,omitempty"`

	// Scope is the request scope: detail (default), digest or aggregation.
	Scope string `yaml:"scope,omitempty"`

	// RQL is the expression under test.
	RQL string `yaml:"rql"`

	// ExpectLocale and ExpectFacets check what the join splitter reports.
	ExpectLocale string `yaml:"expect_locale,omitempty"`
	ExpectFacets *bool  `yaml:"expect_facets,omitempty"`

	// Expect holds per-entity expectations.
	Expect []Expectation `yaml:"expect"`

	// dir is the scenario file's directory; relative paths resolve
	// against it.
	dir string
}

// ResolverSpec is an inline field mapping.
type ResolverSpec struct {
	Taxonomies []string             `yaml:"taxonomies,omitempty"`
	Analyzed   []string             `yaml:"analyzed,omitempty"`
	Fields     map[string]FieldSpec `yaml:"fields,omitempty"`
}

// FieldSpec maps one logical field.
type FieldSpec struct {
	Field     string `yaml:"field,omitempty"`
	Analyzed  bool   `yaml:"analyzed,omitempty"`
	Range     bool   `yaml:"range,omitempty"`
	Localized bool   `yaml:"localized,omitempty"`
}

// Expectation checks the compiled query of one entity. Unset fields are
// not checked.
type Expectation struct {
	// Entity is variable, dataset, study or network.
	Entity string `yaml:"entity"`

	// Empty expects the entity to be absent from the expression.
	Empty *bool `yaml:"empty,omitempty"`

	// HasQuery expects at least one clause to have compiled.
	HasQuery *bool `yaml:"has_query,omitempty"`

	From *int `yaml:"from,omitempty"`
	Size *int `yaml:"size,omitempty"`

	// TaxonomyTerms must equal the recorded terms exactly.
	TaxonomyTerms map[string]map[string][]string `yaml:"taxonomy_terms,omitempty"`

	// SourceFields must equal the selected fields, in order.
	SourceFields []string `yaml:"source_fields,omitempty"`

	// Sorts lists fields in order, "-" prefixed when descending.
	Sorts []string `yaml:"sorts,omitempty"`

	// Query is a subset of the compiled "query" object.
	Query map[string]any `yaml:"query,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(fs afero.Fs, path string) (*Scenario, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.dir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario parses scenario YAML. Relative paths in the result resolve
// against the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarioFiles returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarioFiles(fs afero.Fs, dir, filter string) ([]string, error) {
	var files []string

	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Golden snapshots live next to scenarios.
			if path != dir && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// path resolves p against the scenario directory.
func (s *Scenario) path(p string) string {
	if filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(s.RQL) == "" {
		return fmt.Errorf("rql is required")
	}
	if s.Config != "" && s.Resolver != nil {
		return fmt.Errorf("config and resolver are mutually exclusive")
	}
	if s.Scope != "" {
		if _, err := esdsl.ParseScope(s.Scope); err != nil {
			return err
		}
	}
	if len(s.Expect) == 0 && s.ExpectLocale == "" && s.ExpectFacets == nil {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	seen := make(map[resolver.Entity]bool, len(s.Expect))
	for i, e := range s.Expect {
		entity, ok := resolver.ParseEntity(e.Entity)
		if !ok {
			return fmt.Errorf("expect[%d]: unknown entity %q", i, e.Entity)
		}
		if seen[entity] {
			return fmt.Errorf("expect[%d]: duplicate entity %q", i, e.Entity)
		}
		seen[entity] = true
		if e.From != nil && *e.From < 0 {
			return fmt.Errorf("expect[%d]: from must be non-negative", i)
		}
		if e.Size != nil && *e.Size < 0 {
			return fmt.Errorf("expect[%d]: size must be non-negative", i)
		}
	}
	return nil
}

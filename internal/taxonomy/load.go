package taxonomy

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads one taxonomy from a YAML file.
// Unknown fields are rejected so that typos ("vocabulary:" for
// "vocabularies:") fail loudly instead of yielding an empty taxonomy.
func Load(fs afero.Fs, path string) (Taxonomy, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a taxonomy from YAML bytes. source names the input in
// error messages.
func Parse(data []byte, source string) (Taxonomy, error) {
	var t Taxonomy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy %s: %w", source, err)
	}
	if err := t.validate(); err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomy %s: %w", source, err)
	}
	return t, nil
}

// LoadAll loads every path in order, failing on the first error.
func LoadAll(fs afero.Fs, paths []string) ([]Taxonomy, error) {
	out := make([]Taxonomy, 0, len(paths))
	for _, p := range paths {
		t, err := Load(fs, p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (t Taxonomy) validate() error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	seen := make(map[string]bool, len(t.Vocabularies))
	for i, v := range t.Vocabularies {
		if v.Name == "" {
			return fmt.Errorf("vocabularies[%d]: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate vocabulary %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

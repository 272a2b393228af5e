// Package resolver maps logical RQL field names to indexed field names.
//
// The compilers depend only on the FieldResolver interface. Mapping is the
// configuration-driven implementation used by the CLI and the harness; any
// other implementation (a live index mapping, a test stub) can be swapped in.
package resolver

import "github.com/roach88/rqlsearch/internal/taxonomy"

// FieldData is the result of resolving one logical field.
type FieldData struct {
	Field   string // concrete indexed field name
	IsRange bool   // values are "from:to" windows rather than terms
}

// FieldResolver resolves logical field names for one entity type and locale.
// Implementations must be safe for concurrent reads and must not change
// after construction.
type FieldResolver interface {
	// Resolve returns the field to use for free-text and term operations.
	// It may return an analyzed variant.
	Resolve(field string) FieldData

	// ResolveUnanalyzed returns the exact-match variant, used for sorting.
	ResolveUnanalyzed(field string) FieldData

	// Taxonomies returns the taxonomies backing this entity's vocabularies.
	Taxonomies() []taxonomy.Taxonomy

	// AnalyzedFields returns the logical fields boosted in single-argument
	// free-text matches.
	AnalyzedFields() []string
}

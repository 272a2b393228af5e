// Package querytree defines the backend-agnostic search query tree.
//
// Compilers in rqlquery build trees from RQL; esdsl serializes them into the
// search engine's JSON DSL. The tree is a sealed union: only types in this
// package implement Node, so serializers can switch over it exhaustively.
//
// Variants:
//   - MatchAll: every document
//   - Term / Terms: exact value membership on one field
//   - Range: bounded window on one field (any subset of gte/gt/lte/lt)
//   - Exists: field presence
//   - FullText: query-string search over optional, optionally boosted fields
//   - Wildcard: pattern match on one field
//   - Bool: must / should / must_not combination
//
// Trees are built bottom-up and never mutated after construction. To change
// a tree, build a new one.
//
// A Bool with no clauses is kept as such rather than collapsed into
// MatchAll. Search engines evaluate it as match-all, but callers need to
// tell "nothing was compiled" apart from an explicit match-all, so
// IsEmptyBool exposes it.
package querytree

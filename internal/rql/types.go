package rql

import "strings"

// NodeType enumerates the RQL node names understood by the compilers.
type NodeType int

const (
	TypeUnknown NodeType = iota

	// Entities
	TypeVariable
	TypeDataset
	TypeStudy
	TypeNetwork

	// Logical operators
	TypeAnd
	TypeNand
	TypeOr
	TypeNor
	TypeNot
	TypeFilter

	// Comparisons
	TypeContains
	TypeIn
	TypeOut
	TypeEq
	TypeLe
	TypeLt
	TypeGe
	TypeGt
	TypeBetween
	TypeMatch
	TypeLike
	TypeExists
	TypeMissing
	TypeQuery

	// Directives
	TypeLimit
	TypeSort
	TypeAggregate
	TypeBucket
	TypeRe
	TypeSelect
	TypeFields
	TypeLocale
	TypeFacet
)

var typeNames = map[NodeType]string{
	TypeVariable:  "variable",
	TypeDataset:   "dataset",
	TypeStudy:     "study",
	TypeNetwork:   "network",
	TypeAnd:       "and",
	TypeNand:      "nand",
	TypeOr:        "or",
	TypeNor:       "nor",
	TypeNot:       "not",
	TypeFilter:    "filter",
	TypeContains:  "contains",
	TypeIn:        "in",
	TypeOut:       "out",
	TypeEq:        "eq",
	TypeLe:        "le",
	TypeLt:        "lt",
	TypeGe:        "ge",
	TypeGt:        "gt",
	TypeBetween:   "between",
	TypeMatch:     "match",
	TypeLike:      "like",
	TypeExists:    "exists",
	TypeMissing:   "missing",
	TypeQuery:     "query",
	TypeLimit:     "limit",
	TypeSort:      "sort",
	TypeAggregate: "aggregate",
	TypeBucket:    "bucket",
	TypeRe:        "re",
	TypeSelect:    "select",
	TypeFields:    "fields",
	TypeLocale:    "locale",
	TypeFacet:     "facet",
}

var typesByName = func() map[string]NodeType {
	m := make(map[string]NodeType, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// LookupType returns the node type for name, ignoring case.
func LookupType(name string) (NodeType, bool) {
	t, ok := typesByName[strings.ToLower(name)]
	return t, ok
}

// String returns the canonical lower-case node name.
func (t NodeType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsEntity reports whether t names a searchable entity type.
func (t NodeType) IsEntity() bool {
	switch t {
	case TypeVariable, TypeDataset, TypeStudy, TypeNetwork:
		return true
	}
	return false
}

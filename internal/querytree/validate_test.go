package querytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rqlsearch/internal/rql"
)

func TestValidate_CleanTree(t *testing.T) {
	tree := And(
		Term{Field: "a", Value: rql.Int(1)},
		Or(Range{Field: "age", GTE: rql.Int(18)}, Exists{Field: "b"}),
		Not(Wildcard{Field: "name", Pattern: "tu*"}),
		FullText{Query: "blood"},
	)

	result := Validate(tree)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidate_EmptyBool(t *testing.T) {
	result := Validate(Bool{})

	assert.False(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "match-all")
}

func TestValidate_NestedFindingsCarryPaths(t *testing.T) {
	tree := And(
		Range{Field: "age"},
		Or(Terms{Field: "x"}),
	)

	result := Validate(tree)
	assert.False(t, result.Valid)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "$.must[0]")
	assert.Contains(t, result.Warnings[0], "no bound")
	assert.Contains(t, result.Warnings[1], "$.must[1].should[0]")
	assert.Contains(t, result.Warnings[1], "matches nothing")
}

func TestValidate_EmptyFieldAndQuery(t *testing.T) {
	result := Validate(And(Exists{}, FullText{}))

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "exists has an empty field")
	assert.Contains(t, result.Warnings[1], "full-text query is empty")
}

func TestValidate_NilNodes(t *testing.T) {
	result := Validate(nil)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "nil query node")

	result = Validate(Bool{Must: []Node{nil}})
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "$.must[0]")
}

package rqlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/rql"
)

func TestCombine_DropsEmptyQueries(t *testing.T) {
	f := compileFacade(t, "variable(eq(a,1))")

	q := Combine(Empty{}, nil, f, Empty{})

	require.Len(t, q.Queries(), 1)
	assert.False(t, q.IsEmpty())

	assert.True(t, Combine(Empty{}, nil).IsEmpty())
	assert.True(t, Combine().IsEmpty())
}

func TestAndQuery_LimitFromFirstLimitedQuery(t *testing.T) {
	q := Combine(
		compileFacade(t, "variable(eq(a,1))"),
		compileFacade(t, "study(limit(5,15))"),
		compileFacade(t, "dataset(limit(7,9))"),
	)

	assert.True(t, q.HasLimit())
	assert.Equal(t, 5, q.From())
	assert.Equal(t, 15, q.Size())
}

func TestAndQuery_NoLimit(t *testing.T) {
	q := Combine(compileFacade(t, "variable(eq(a,1))"))

	assert.False(t, q.HasLimit())
	assert.Equal(t, 0, q.From())
	assert.Equal(t, 0, q.Size())
}

func TestAndQuery_QueryTreeSkipsTreelessQueries(t *testing.T) {
	q := Combine(
		compileFacade(t, "variable(eq(a,1))"),
		compileFacade(t, "study(limit(0,1))"),
		compileFacade(t, "dataset(eq(b,2))"),
	)

	assert.True(t, q.HasQueryTree())
	assert.Equal(t, querytree.Bool{Must: []querytree.Node{
		term("a", rql.Int(1)), term("b", rql.Int(2)),
	}}, q.QueryTree())

	assert.False(t, Combine(compileFacade(t, "study(limit(0,1))")).HasQueryTree())
}

func TestAndQuery_ConcatenatesDirectives(t *testing.T) {
	q := Combine(
		compileFacade(t, "variable(sort(name),aggregate(name,bucket(studyId)),fields(id))"),
		compileFacade(t, "study(sort(-acronym),aggregate(acronym))"),
	)

	sorts := q.Sorts()
	require.Len(t, sorts, 2)
	assert.Equal(t, "name", sorts[0].Field)
	assert.Equal(t, "acronym", sorts[1].Field)

	assert.True(t, q.HasAggregate())
	assert.Equal(t, []string{"name", "acronym"}, q.Aggregations())
	assert.Equal(t, []string{"studyId"}, q.AggregationBuckets())
	assert.Equal(t, []string{"studyId"}, q.QueryAggregationBuckets())

	fields, restricted := q.SourceFields()
	assert.True(t, restricted)
	assert.Equal(t, []string{"id"}, fields)
}

func TestAndQuery_UnrestrictedSourceFields(t *testing.T) {
	q := Combine(compileFacade(t, "variable(eq(a,1))"))

	fields, restricted := q.SourceFields()
	assert.False(t, restricted)
	assert.Nil(t, fields)
}

func TestAndQuery_MergesTaxonomyTerms(t *testing.T) {
	q := Combine(
		compileFacade(t, "variable(in(Mlstr_area.Diseases,(Cancer)))"),
		compileFacade(t, "variable(eq(Mlstr_area.Diseases,Diabetes))"),
	)

	assert.Equal(t, []string{"Cancer", "Diabetes"}, q.TaxonomyTerms().Get("Mlstr_area", "Diseases"))
}

package rqlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/rql"
)

func compileFacade(t *testing.T, text string) *Facade {
	t.Helper()
	f, err := Compile(rql.MustParse(text), newTestResolver())
	require.NoError(t, err)
	return f
}

func TestCompile_EntityWithDirectives(t *testing.T) {
	f := compileFacade(t, "network(eq(id,ialsa),limit(3,4),sort(-name))")

	assert.False(t, f.IsEmpty())
	assert.Equal(t, term("id", rql.String("ialsa")), f.QueryTree())
	assert.True(t, f.HasLimit())
	assert.Equal(t, 3, f.From())
	assert.Equal(t, 4, f.Size())
	assert.Equal(t, []SortDirective{
		{Field: "name", MissingLast: true, UnmappedType: "string"},
	}, f.Sorts())
	assert.False(t, f.HasAggregate())
}

func TestCompile_Defaults(t *testing.T) {
	f := compileFacade(t, "variable()")

	assert.False(t, f.IsEmpty())
	assert.False(t, f.HasQueryTree())
	assert.False(t, f.HasLimit())
	assert.Equal(t, DefaultFrom, f.From())
	assert.Equal(t, DefaultSize, f.Size())
	assert.Empty(t, f.Sorts())

	fields, restricted := f.SourceFields()
	assert.False(t, restricted)
	assert.Nil(t, fields)
}

func TestCompile_SeveralClausesAreAnded(t *testing.T) {
	f := compileFacade(t, "variable(eq(a,1),eq(b,2))")

	assert.Equal(t, querytree.Bool{Must: []querytree.Node{
		term("a", rql.Int(1)), term("b", rql.Int(2)),
	}}, f.QueryTree())
}

func TestCompile_FilterGoesFirst(t *testing.T) {
	f := compileFacade(t, "variable(eq(b,2),filter(eq(a,1)))")
	assert.Equal(t, querytree.Bool{Must: []querytree.Node{
		term("a", rql.Int(1)), term("b", rql.Int(2)),
	}}, f.QueryTree())

	f = compileFacade(t, "variable(filter(eq(a,1)))")
	assert.Equal(t, term("a", rql.Int(1)), f.QueryTree())
}

func TestCompile_StopsAtUnrecognizedChild(t *testing.T) {
	f := compileFacade(t, "variable(eq(a,1),bogus(x),limit(3,4))")

	assert.Equal(t, term("a", rql.Int(1)), f.QueryTree())
	assert.False(t, f.HasLimit())
}

func TestCompile_SortsAppendInOrder(t *testing.T) {
	f := compileFacade(t, "study(sort(name),sort(-acronym))")

	sorts := f.Sorts()
	require.Len(t, sorts, 2)
	assert.Equal(t, "name", sorts[0].Field)
	assert.Equal(t, "acronym", sorts[1].Field)
	assert.False(t, sorts[1].Ascending)
}

func TestCompile_Fields(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"dataset(fields())", []string{}},
		{"dataset(fields(()))", []string{}},
		{"dataset(fields((name.*,acronym)))", []string{"name.*", "acronym"}},
		{"dataset(select(id))", []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fields, restricted := compileFacade(t, tt.input).SourceFields()
			assert.True(t, restricted)
			assert.Equal(t, tt.expected, fields)
		})
	}
}

func TestCompile_Aggregate(t *testing.T) {
	f := compileFacade(t, "variable(aggregate())")
	assert.True(t, f.HasAggregate())
	assert.Empty(t, f.Aggregations())
	assert.Empty(t, f.AggregationBuckets())

	f = compileFacade(t, "variable(aggregate(name,bucket(studyId)))")
	assert.Equal(t, []string{"name"}, f.Aggregations())
	assert.Equal(t, []string{"studyId"}, f.QueryAggregationBuckets())
	assert.Equal(t, []string{"studyId"}, f.AggregationBuckets())
}

func TestFacade_EnsureAggregationBuckets(t *testing.T) {
	f := compileFacade(t, "variable(aggregate(name,bucket(studyId)))")

	g := f.EnsureAggregationBuckets("dceId", "studyId", "dceId")

	assert.Equal(t, []string{"studyId", "dceId"}, g.AggregationBuckets())
	assert.Equal(t, []string{"studyId"}, g.QueryAggregationBuckets())
	assert.Equal(t, []string{"studyId"}, f.AggregationBuckets(), "original is unchanged")
}

func TestCompile_NonEntityRoot(t *testing.T) {
	f := compileFacade(t, "eq(a,1)")

	assert.Equal(t, term("a", rql.Int(1)), f.QueryTree())
	assert.False(t, f.HasLimit())
}

func TestCompile_EmptyInput(t *testing.T) {
	f := compileFacade(t, "")

	assert.False(t, f.IsEmpty())
	assert.False(t, f.HasQueryTree())
}

func TestCompile_RangeErrorIsWrapped(t *testing.T) {
	_, err := Compile(rql.MustParse("variable(in(size,(oops)))"), newTestResolver())

	require.Error(t, err)
	assert.True(t, IsRangeError(err))
	assert.Contains(t, err.Error(), "compile variable")
	assert.Contains(t, err.Error(), `invalid range "oops"`)
}

func TestCompile_TaxonomyTerms(t *testing.T) {
	f := compileFacade(t, "variable(in(Mlstr_area.Diseases,(Cancer)),exists(Mlstr_area.Age))")

	terms := f.TaxonomyTerms()
	assert.Equal(t, []string{"Cancer"}, terms.Get("Mlstr_area", "Diseases"))
	assert.True(t, terms.Has("Mlstr_area", "Age"))
	assert.Equal(t, []string{"Mlstr_area"}, terms.Namespaces())

	terms.Add("other", "voc", "x")
	assert.False(t, f.TaxonomyTerms().Has("other", "voc"), "getter returns a copy")
}

func TestCompile_Deterministic(t *testing.T) {
	input := "variable(and(in(Mlstr_area.Age,(1:2)),match(blood)),sort(name),limit(0,20),aggregate(name))"

	a := compileFacade(t, input)
	b := compileFacade(t, input)
	assert.Equal(t, a, b)
}

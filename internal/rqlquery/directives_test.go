package rqlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/rqlsearch/internal/rql"
)

func TestCompileSort(t *testing.T) {
	got := CompileSort(rql.MustParse("sort(-name,+acronym,size,_score)"), newTestResolver())

	assert.Equal(t, []SortDirective{
		{Field: "name", Ascending: false, MissingLast: true, UnmappedType: "string"},
		{Field: "acronym", Ascending: true, MissingLast: true, UnmappedType: "string"},
		{Field: "stats.size", Ascending: true, MissingLast: true, UnmappedType: "string"},
		{Field: "_score", Ascending: true},
	}, got)
}

func TestCompileLimit(t *testing.T) {
	tests := []struct {
		input      string
		from, size int
	}{
		{"limit(3,4)", 3, 4},
		{"limit(20)", 20, DefaultSize},
		{"limit()", DefaultFrom, DefaultSize},
		{"limit(a,b)", DefaultFrom, DefaultSize},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			from, size := CompileLimit(rql.MustParse(tt.input))
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestCompileAggregate(t *testing.T) {
	aggs, buckets := CompileAggregate(rql.MustParse("aggregate(name,bucket(studyId,dceId),re(size))"), newTestResolver())

	assert.Equal(t, []string{"name", "stats.size"}, aggs)
	assert.Equal(t, []string{"studyId", "dceId"}, buckets)
}

func TestCompileAggregate_NoArguments(t *testing.T) {
	aggs, buckets := CompileAggregate(rql.MustParse("aggregate()"), newTestResolver())

	assert.NotNil(t, aggs)
	assert.NotNil(t, buckets)
	assert.Empty(t, aggs)
	assert.Empty(t, buckets)
}

func TestCompileFields(t *testing.T) {
	assert.Equal(t, []string{"name.*", "acronym", "id"}, CompileFields(rql.MustParse("fields((name.*,acronym),id)")))

	for _, input := range []string{"fields()", "fields(())"} {
		got := CompileFields(rql.MustParse(input))
		assert.NotNil(t, got, input)
		assert.Empty(t, got, input)
	}
}

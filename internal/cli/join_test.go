package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_BodiesPerEntity(t *testing.T) {
	opts := newTestOptions(t, "json")

	out, _, err := execute(NewJoinCommand(opts),
		"variable(in(Mlstr_area.Diseases,Cancer)),study(ge(size,1000)),locale(fr),facet()")
	require.NoError(t, err)

	var result JoinResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "fr", result.Locale)
	assert.True(t, result.WithFacets)
	assert.False(t, result.SearchOnNetworksOnly)

	require.Len(t, result.Bodies, 2)
	assert.Contains(t, result.Bodies, "variable")
	assert.Contains(t, result.Bodies, "study")
	assert.NotContains(t, result.Bodies, "dataset")
	assert.NotContains(t, result.Bodies, "network")

	assert.Equal(t, map[string]any{
		"range": map[string]any{"populations.numberOfParticipants": map[string]any{"gte": float64(1000)}},
	}, result.Bodies["study"]["query"])
}

func TestJoin_VariableAlwaysSearched(t *testing.T) {
	opts := newTestOptions(t, "json")

	out, _, err := execute(NewJoinCommand(opts), "network(eq(id,cls)),facet()")
	require.NoError(t, err)

	var result JoinResult
	decodeData(t, out, &result)
	assert.Equal(t, "en", result.Locale)
	assert.True(t, result.WithFacets)
	assert.True(t, result.SearchOnNetworksOnly)
	require.Contains(t, result.Bodies, "variable")
	assert.Equal(t, map[string]any{"match_all": map[string]any{}}, result.Bodies["variable"]["query"])
	require.Contains(t, result.Bodies, "network")
	assert.Equal(t, map[string]any{"term": map[string]any{"id": "cls"}}, result.Bodies["network"]["query"])
}

func TestJoin_LocaleFlagIsDefault(t *testing.T) {
	opts := newTestOptions(t, "json")
	opts.Locale = "fr"

	out, _, err := execute(NewJoinCommand(opts), "study(eq(acronym,CLSA))")
	require.NoError(t, err)

	var result JoinResult
	decodeData(t, out, &result)
	assert.Equal(t, "fr", result.Locale)
}

func TestJoin_Text(t *testing.T) {
	opts := newTestOptions(t, "text")

	out, _, err := execute(NewJoinCommand(opts), "study(eq(acronym,CLSA)),facet()")
	require.NoError(t, err)

	assert.Contains(t, out, "locale: en\n")
	assert.Contains(t, out, "facets: true\n")
	assert.Contains(t, out, "# variable\n")
	assert.Contains(t, out, "# study\n")
	assert.NotContains(t, out, "# dataset")
}

func TestJoin_InvalidScope(t *testing.T) {
	opts := newTestOptions(t, "json")

	_, _, err := execute(NewJoinCommand(opts), "--scope", "everything", "study()")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJoin_SyntaxError(t *testing.T) {
	opts := newTestOptions(t, "json")

	out, _, err := execute(NewJoinCommand(opts), "study(eq(acronym,CLSA)")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeData(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
}

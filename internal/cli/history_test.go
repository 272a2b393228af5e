package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordTestCompilations compiles each expression into a fresh history
// database and returns its path.
func recordTestCompilations(t *testing.T, exprs ...string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "history.db")
	for _, expr := range exprs {
		opts := newTestOptions(t, "json")
		opts.DB = db
		_, _, err := execute(NewCompileCommand(opts), expr)
		require.NoError(t, err)
	}
	return db
}

func TestHistory_ListNewestFirst(t *testing.T) {
	db := recordTestCompilations(t, "variable(eq(name,bmi))", "study(eq(acronym,CLSA))", "variable(eq(name,bmi))")

	opts := newTestOptions(t, "json")
	opts.DB = db
	out, _, err := execute(NewHistoryCommand(opts))
	require.NoError(t, err)

	var entries []HistoryEntry
	decodeData(t, out, &entries)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[0].Seq)
	assert.Equal(t, "variable", entries[0].Entity)
	assert.Equal(t, "study", entries[1].Entity)
	assert.Equal(t, "detail", entries[1].Scope)
	assert.Equal(t, "en", entries[1].Locale)
	assert.Equal(t, entries[0].Fingerprint, entries[2].Fingerprint)
	assert.Empty(t, entries[0].Body)
}

func TestHistory_Limit(t *testing.T) {
	db := recordTestCompilations(t, "variable(eq(name,bmi))", "study(eq(acronym,CLSA))")

	opts := newTestOptions(t, "json")
	opts.DB = db
	out, _, err := execute(NewHistoryCommand(opts), "--limit", "1")
	require.NoError(t, err)

	var entries []HistoryEntry
	decodeData(t, out, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "study", entries[0].Entity)
}

func TestHistory_ByFingerprintAndID(t *testing.T) {
	db := recordTestCompilations(t, "variable(eq(name,bmi))", "study(eq(acronym,CLSA))", "VARIABLE(eq(name,bmi))")

	opts := newTestOptions(t, "json")
	opts.DB = db
	out, _, err := execute(NewHistoryCommand(opts), "--limit", "0")
	require.NoError(t, err)
	var all []HistoryEntry
	decodeData(t, out, &all)
	require.Len(t, all, 3)

	opts = newTestOptions(t, "json")
	opts.DB = db
	out, _, err = execute(NewHistoryCommand(opts), "--fingerprint", all[0].Fingerprint)
	require.NoError(t, err)
	var same []HistoryEntry
	decodeData(t, out, &same)
	require.Len(t, same, 2)
	assert.Equal(t, int64(1), same[0].Seq)
	assert.Equal(t, int64(3), same[1].Seq)

	opts = newTestOptions(t, "text")
	opts.DB = db
	out, _, err = execute(NewHistoryCommand(opts), "--id", all[1].ID)
	require.NoError(t, err)
	assert.Contains(t, out, all[1].ID)
	assert.Contains(t, out, `"acronym": "CLSA"`)
}

func TestHistory_UnknownID(t *testing.T) {
	db := recordTestCompilations(t, "variable(eq(name,bmi))")

	opts := newTestOptions(t, "json")
	opts.DB = db
	out, _, err := execute(NewHistoryCommand(opts), "--id", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeData(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStore, resp.Error.Code)
}

func TestHistory_RequiresDB(t *testing.T) {
	opts := newTestOptions(t, "json")

	out, _, err := execute(NewHistoryCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeData(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidFlag, resp.Error.Code)
}

func TestHistory_MissingDatabase(t *testing.T) {
	opts := newTestOptions(t, "json")
	opts.DB = filepath.Join(t.TempDir(), "absent.db")

	out, _, err := execute(NewHistoryCommand(opts))
	require.Error(t, err)

	resp := decodeData(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.NoFileExists(t, opts.DB)
}

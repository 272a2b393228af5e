package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCompilation(fingerprint, entity string) Compilation {
	return Compilation{
		Fingerprint: fingerprint,
		RQL:         "variable(eq(name,bmi))",
		Entity:      entity,
		Body:        `{"query":{"match_all":{}}}`,
	}
}

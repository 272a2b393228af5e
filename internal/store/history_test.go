package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCompilation_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := testCompilation("fp-1", "variable")
	in.ID = "ignored"
	in.Seq = 99

	first, err := s.WriteCompilation(ctx, in)
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err, "ID should be a uuid")
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "detail", first.Scope)
	assert.Equal(t, "en", first.Locale)

	second, err := s.WriteCompilation(ctx, testCompilation("fp-2", "study"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestWriteCompilation_RequiresFields(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name string
		c    Compilation
	}{
		{"no fingerprint", Compilation{Entity: "variable", Body: "{}"}},
		{"no entity", Compilation{Fingerprint: "fp", Body: "{}"}},
		{"no body", Compilation{Fingerprint: "fp", Entity: "variable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.WriteCompilation(context.Background(), tt.c)
			assert.ErrorIs(t, err, ErrInvalidCompilation)
		})
	}
}

func TestWriteCompilation_ConcurrentWritersGetDistinctSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.WriteCompilation(ctx, testCompilation("fp", "variable"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, writers)
	seen := map[int64]bool{}
	for _, c := range all {
		assert.False(t, seen[c.Seq], "duplicate seq %d", c.Seq)
		seen[c.Seq] = true
	}
}

func TestReadCompilation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := testCompilation("fp-1", "network")
	in.Scope = "digest"
	in.Locale = "fr"
	written, err := s.WriteCompilation(ctx, in)
	require.NoError(t, err)

	got, err := s.ReadCompilation(ctx, written.ID)
	require.NoError(t, err)
	assert.Equal(t, written, got)
}

func TestReadCompilation_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadCompilation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCompilations_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, fp := range []string{"a", "b", "c"} {
		_, err := s.WriteCompilation(ctx, testCompilation(fp, "variable"))
		require.NoError(t, err)
	}

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, fingerprints(all))

	limited, err := s.ListCompilations(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, fingerprints(limited))
}

func TestListCompilations_Empty(t *testing.T) {
	s := createTestStore(t)

	all, err := s.ListCompilations(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindByFingerprint_OldestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteCompilation(ctx, testCompilation("same", "variable"))
	require.NoError(t, err)
	_, err = s.WriteCompilation(ctx, testCompilation("other", "variable"))
	require.NoError(t, err)
	third, err := s.WriteCompilation(ctx, testCompilation("same", "study"))
	require.NoError(t, err)

	found, err := s.FindByFingerprint(ctx, "same")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, third.ID, found[1].ID)

	none, err := s.FindByFingerprint(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func fingerprints(cs []Compilation) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Fingerprint
	}
	return out
}

package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"course-service/internal/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, maxSize int64) (*storage.Local, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := storage.New(fs, "/data/uploads", maxSize)
	require.NoError(t, err)
	return store, fs
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesUnderRootWithGeneratedName", func(t *testing.T) {
		store, fs := newStore(t, 0)

		stored, err := store.Save(ctx, "Lecture Notes.PDF", strings.NewReader("%PDF-1.7"))
		require.NoError(t, err)

		assert.Equal(t, "/data/uploads", filepath.Dir(stored.Path))
		assert.True(t, strings.HasSuffix(stored.Path, ".pdf"))
		assert.NotContains(t, stored.Path, "Lecture")
		assert.Equal(t, int64(8), stored.Size)

		content, err := afero.ReadFile(fs, stored.Path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(content))
	})

	t.Run("IgnoresTraversalInClientName", func(t *testing.T) {
		store, fs := newStore(t, 0)

		stored, err := store.Save(ctx, "../../etc/passwd", strings.NewReader("root:x:0:0"))
		require.NoError(t, err)

		assert.Equal(t, "/data/uploads", filepath.Dir(stored.Path))
		exists, err := afero.Exists(fs, "/etc/passwd")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DropsOddExtensions", func(t *testing.T) {
		store, _ := newStore(t, 0)

		stored, err := store.Save(ctx, "notes.t$t", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Empty(t, filepath.Ext(stored.Path))
	})

	t.Run("SameNameTwiceKeepsBothFiles", func(t *testing.T) {
		store, fs := newStore(t, 0)

		first, err := store.Save(ctx, "a.txt", strings.NewReader("one"))
		require.NoError(t, err)
		second, err := store.Save(ctx, "a.txt", strings.NewReader("two"))
		require.NoError(t, err)

		assert.NotEqual(t, first.Path, second.Path)
		content, err := afero.ReadFile(fs, first.Path)
		require.NoError(t, err)
		assert.Equal(t, "one", string(content))
	})

	t.Run("RejectsOversizedAndCleansUp", func(t *testing.T) {
		store, fs := newStore(t, 4)

		_, err := store.Save(ctx, "big.bin", bytes.NewReader([]byte("12345")))
		require.ErrorIs(t, err, storage.ErrTooLarge)

		entries, err := afero.ReadDir(fs, "/data/uploads")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store, _ := newStore(t, 0)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Save(cctx, "a.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesFile", func(t *testing.T) {
		store, fs := newStore(t, 0)

		stored, err := store.Save(ctx, "a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, store.Remove(stored.Path))

		exists, err := afero.Exists(fs, stored.Path)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("MissingFileIsNotExist", func(t *testing.T) {
		store, _ := newStore(t, 0)

		err := store.Remove("/data/uploads/gone.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("RefusesPathsOutsideRoot", func(t *testing.T) {
		store, fs := newStore(t, 0)
		require.NoError(t, afero.WriteFile(fs, "/data/other.txt", []byte("keep"), 0o644))

		err := store.Remove("/data/uploads/../other.txt")
		assert.ErrorIs(t, err, storage.ErrOutsideRoot)

		exists, err := afero.Exists(fs, "/data/other.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

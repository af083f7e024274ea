package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTempDir_RemovesOnSuccess(t *testing.T) {
	root := t.TempDir()
	var seen string

	err := WithTempDir(root, "latex-*", func(s Scratch) error {
		seen = s.Dir()
		info, err := s.Put("questions.tex", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), info.Size)
		assert.Equal(t, filepath.Join(seen, "questions.tex"), info.Path)

		rc, got, err := s.Get("questions.tex")
		require.NoError(t, err)
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "hello", string(b))
		assert.Equal(t, "questions.tex", got.Name)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(seen), "latex-"))
	_, statErr := os.Stat(seen)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
}

func TestWithTempDir_RemovesOnError(t *testing.T) {
	root := t.TempDir()
	boom := errors.New("boom")

	err := WithTempDir(root, "latex-*", func(s Scratch) error {
		_, err := s.Put("questions.log", strings.NewReader("! Undefined control sequence."))
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
}

func TestWithTempDir_RemovesOnPanic(t *testing.T) {
	root := t.TempDir()

	assert.Panics(t, func() {
		_ = WithTempDir(root, "latex-*", func(s Scratch) error {
			panic("compiler exploded")
		})
	})

	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
}

func TestWithTempDir_UniquePerCall(t *testing.T) {
	root := t.TempDir()
	var first, second string

	require.NoError(t, WithTempDir(root, "latex-*", func(a Scratch) error {
		first = a.Dir()
		return WithTempDir(root, "latex-*", func(b Scratch) error {
			second = b.Dir()
			return nil
		})
	}))

	assert.NotEqual(t, first, second)
}

func TestScratch_StatMissing(t *testing.T) {
	require.NoError(t, WithTempDir(t.TempDir(), "latex-*", func(s Scratch) error {
		_, err := s.Stat("questions.pdf")
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		_, err = s.Put("x", nil)
		assert.Error(t, err)
		return nil
	}))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "nested")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
	assert.Error(t, EnsureDir(""))
}

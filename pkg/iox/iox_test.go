package iox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("0 0.5 0.5 0.1 0.1\n"), 0644))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(dst, src))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "0 0.5 0.5 0.1 0.1\n", string(b))
	st, err := os.Stat(dst)
	require.NoError(t, err)
	require.True(t, st.ModTime().Equal(mtime))

	// the source is untouched
	b, err = os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, "0 0.5 0.5 0.1 0.1\n", string(b))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "out"), filepath.Join(dir, "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, "out"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteStreamToFileBadDir(t *testing.T) {
	dir := t.TempDir()
	err := WriteStreamToFile(filepath.Join(dir, "missing", "x"), strings.NewReader("x"))
	require.Error(t, err)
}

func TestCopyFileOntoItself(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("1 0.1 0.1 0.1 0.1"), 0644))

	require.ErrorIs(t, CopyFile(src, src), ErrSameFile)
	// A different spelling of the same path
	require.ErrorIs(t, CopyFile(filepath.Join(dir, ".", "a.txt"), src), ErrSameFile)
	// A hard link
	link := filepath.Join(dir, "b.txt")
	require.NoError(t, os.Link(src, link))
	require.ErrorIs(t, CopyFile(link, src), ErrSameFile)

	b, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, "1 0.1 0.1 0.1 0.1", string(b))
}

func TestCopyFileOntoDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0777))
	require.Error(t, CopyFile(filepath.Join(dir, "out"), src))
}

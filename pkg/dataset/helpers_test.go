package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Create files (with optional content) inside dir, creating dir if necessary
func writeFiles(t *testing.T, dir string, files map[string]string) {
	require.NoError(t, os.MkdirAll(dir, 0777))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func touch(t *testing.T, dir string, names ...string) {
	files := map[string]string{}
	for _, n := range names {
		files[n] = ""
	}
	writeFiles(t, dir, files)
}

// Sorted names of the files in dir
func dirNames(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}
	}
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func writeDir(parent, name string) error {
	return os.Mkdir(filepath.Join(parent, name), 0777)
}

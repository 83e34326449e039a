// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under dir, keyed by slash-separated relative
// path, creating parent directories as needed. It returns dir.
func WriteTree(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// TempTree is WriteTree into a fresh t.TempDir().
func TempTree(t *testing.T, files map[string]string) string {
	t.Helper()
	return WriteTree(t, t.TempDir(), files)
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Golden returns a goldie instance reading fixtures from
// testdata/golden/<name>.golden. Regenerate with -update.
func Golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

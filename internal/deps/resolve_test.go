package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/codestamp/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func relativePaths(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.RelativePath
	}
	return out
}

func TestResolveSortedByAbsolutePath(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"z.txt":         "z",
		"a.txt":         "a",
		"sub/m.txt":     "m",
		"sub/deep/b.md": "b",
	})

	items, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"z.txt", "**/*.txt", "sub/deep/b.md"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "sub/deep/b.md", "sub/m.txt", "z.txt"}, relativePaths(items))
	assert.Equal(t, filepath.Join(dir, "a.txt"), items[0].AbsolutePath)
	assert.Equal(t, "a", items[0].Content)
}

func TestResolveDeduplicates(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"a.txt": "a"})

	items, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"a.txt", "*.txt", "./a.txt"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestResolveSkipsDirectories(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"dir.txt/inner": "x", "file.txt": "f"})

	items, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"*.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file.txt"}, relativePaths(items))
}

func TestResolveNoMatchIsEmpty(t *testing.T) {
	dir := t.TempDir()

	items, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"missing.txt", "**/*.go"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResolveNoPatterns(t *testing.T) {
	items, err := NewResolver(t.TempDir(), nil).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestResolveParentAndAbsolutePatterns(t *testing.T) {
	root := testutil.TempTree(t, map[string]string{
		"source.json":    "{}",
		"gen/codegen.js": "js",
	})
	cwd := filepath.Join(root, "gen")

	items, err := NewResolver(cwd, nil).Resolve(context.Background(), []string{
		"../source.json",
		filepath.Join(root, "gen", "codegen.js"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"codegen.js", "../source.json"}, relativePaths(items))
	assert.Equal(t, filepath.Join(root, "gen", "codegen.js"), items[0].AbsolutePath)
	assert.Equal(t, filepath.Join(root, "source.json"), items[1].AbsolutePath)
}

func TestResolveCwdWithGlobCharacters(t *testing.T) {
	root := testutil.TempTree(t, map[string]string{
		"proj[1]/a.txt":     "a",
		"proj[1]/sub/b.txt": "b",
		"proj1/a.txt":       "decoy",
		"{x,y}/c.txt":       "c",
	})

	items, err := NewResolver(filepath.Join(root, "proj[1]"), nil).Resolve(context.Background(), []string{"a.txt", "**/*.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, relativePaths(items))
	assert.Equal(t, "a", items[0].Content)

	items, err = NewResolver(filepath.Join(root, "{x,y}"), nil).Resolve(context.Background(), []string{"c.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt"}, relativePaths(items))
}

func TestResolveInvalidPattern(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"a.txt": "a"})

	_, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expanding pattern "[a-"`)
}

func TestResolveUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := testutil.TempTree(t, map[string]string{"secret.txt": "s"})
	require.NoError(t, os.Chmod(filepath.Join(dir, "secret.txt"), 0o000))

	_, err := NewResolver(dir, nil).Resolve(context.Background(), []string{"secret.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading dependency")
}

func TestResolveCancelled(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"a.txt": "a", "b.txt": "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(dir, nil).Resolve(ctx, []string{"*.txt"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveManyFilesBounded(t *testing.T) {
	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		files["many/"+name+".txt"] = name
	}
	dir := testutil.TempTree(t, files)

	r := &Resolver{Cwd: dir, Concurrency: 2}
	items, err := r.Resolve(context.Background(), []string{"many/*.txt"})
	require.NoError(t, err)
	require.Len(t, items, 12)
	for i, item := range items {
		assert.Equal(t, string(rune('a'+i)), item.Content)
	}
}

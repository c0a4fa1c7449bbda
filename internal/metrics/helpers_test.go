package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// parseString parses src and closes the tree when the test ends.
func parseString(t *testing.T, src string) *parsers.SyntaxTree {
	t.Helper()

	tree, err := parsers.NewRustParser().ParseSource("test.rs", []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

// parseFile parses a file from disk and closes the tree when the test ends.
func parseFile(t *testing.T, path string) *parsers.SyntaxTree {
	t.Helper()

	tree, err := parsers.NewRustParser().ParseFile(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

// writeFiles creates files under root from a relative-path → content map.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newTestCounter(t *testing.T, ignore ...string) *AssociatedMemberCounter {
	t.Helper()

	counter, err := NewAssociatedMemberCounter(parsers.NewRustParser(), CounterOptions{Ignore: ignore})
	require.NoError(t, err)
	return counter
}

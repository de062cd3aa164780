package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"
	"scriptgraph/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) storage.GraphStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	g := graph.New(
		[]graph.Node{
			{Name: "Intro", Kind: extractor.KindScript, File: "act1.txt", Line: 1},
			{Name: "Hangar", Kind: extractor.KindScript, File: "act1.txt", Line: 6},
		},
		[]graph.Edge{
			{From: "Intro", To: "Hangar"},
			{From: "Hangar", To: "Typo"},
		},
		graph.Metadata{ScriptCount: 2, DependencyCount: 2},
	)
	require.NoError(t, store.SaveGraph(context.Background(), g))
	return store
}

func TestInspect(t *testing.T) {
	store := seededStore(t)

	t.Run("Declared entity", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, inspect(context.Background(), &buf, store, "Hangar", -1))
		out := buf.String()

		assert.Contains(t, out, "Hangar (script) declared in act1.txt:6")
		assert.Contains(t, out, "2 entities share this file")
		assert.Contains(t, out, "- Typo (undeclared)")
		assert.Contains(t, out, "- Intro")
		assert.NotContains(t, out, "```mermaid")
	})

	t.Run("Undeclared target with neighborhood", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, inspect(context.Background(), &buf, store, "Typo", 1))
		out := buf.String()

		assert.Contains(t, out, "Typo is not declared")
		assert.Contains(t, out, "```mermaid")
		assert.Contains(t, out, "n_Hangar --> n_Typo")
		assert.NotContains(t, out, "n_Intro", "Intro is two hops away")
	})
}

package storage

import (
	"context"

	"scriptgraph/internal/graph"
)

// GraphStore persists the graph of the latest run.
type GraphStore interface {
	// SaveGraph replaces the stored snapshot.
	SaveGraph(ctx context.Context, g *graph.Graph) error

	// LoadGraph returns the stored snapshot.
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	// GetNode retrieves a declared entity by name.
	GetNode(ctx context.Context, name string) (graph.Node, error)

	// FindNodesByFile retrieves all entities declared in a file.
	FindNodesByFile(ctx context.Context, file string) ([]graph.Node, error)

	Close() error
}

var _ GraphStore = (*SQLiteStore)(nil)

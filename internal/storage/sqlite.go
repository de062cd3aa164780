package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			name TEXT PRIMARY KEY,
			position INTEGER,
			kind TEXT,
			file TEXT,
			line INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			position INTEGER,
			from_name TEXT,
			to_name TEXT,
			PRIMARY KEY (from_name, to_name)
		);`,
		`CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_name);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const (
	metaScripts      = "total_scripts"
	metaMissions     = "total_missions"
	metaDependencies = "total_dependencies"
	metaGeneratedBy  = "generated_by"
)

// SaveGraph replaces the stored snapshot with g in a single transaction.
// The tables always reflect exactly one run.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM nodes", "DELETE FROM edges", "DELETE FROM metadata"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	// 1. Save Nodes
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (name, position, kind, file, line) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range g.Nodes {
		if _, err := stmt.ExecContext(ctx, n.Name, i, string(n.Kind), n.File, n.Line); err != nil {
			return fmt.Errorf("failed to save node %s: %w", n.Name, err)
		}
	}

	// 2. Save Edges
	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (position, from_name, to_name) VALUES (?, ?, ?)
		ON CONFLICT(from_name, to_name) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for i, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, i, e.From, e.To); err != nil {
			return fmt.Errorf("failed to save edge %s->%s: %w", e.From, e.To, err)
		}
	}

	// 3. Save Metadata
	meta := map[string]string{
		metaScripts:      strconv.Itoa(g.Metadata.ScriptCount),
		metaMissions:     strconv.Itoa(g.Metadata.MissionCount),
		metaDependencies: strconv.Itoa(g.Metadata.DependencyCount),
		metaGeneratedBy:  graph.GeneratedBy,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadGraph reads the last saved snapshot.
func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	// 1. Load Nodes
	rows, err := s.db.QueryContext(ctx, "SELECT name, kind, file, line FROM nodes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []graph.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Load Edges
	edgeRows, err := s.db.QueryContext(ctx, "SELECT from_name, to_name FROM edges ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	edges := []graph.Edge{}
	for edgeRows.Next() {
		var e graph.Edge
		if err := edgeRows.Scan(&e.From, &e.To); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}

	// 3. Load Metadata
	meta, err := s.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}

	return graph.New(nodes, edges, meta), nil
}

func (s *SQLiteStore) loadMetadata(ctx context.Context) (graph.Metadata, error) {
	var meta graph.Metadata
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM metadata")
	if err != nil {
		return meta, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return meta, fmt.Errorf("failed to scan metadata: %w", err)
		}
		if key == metaGeneratedBy {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return meta, fmt.Errorf("invalid metadata %s=%q: %w", key, value, err)
		}
		switch key {
		case metaScripts:
			meta.ScriptCount = n
		case metaMissions:
			meta.MissionCount = n
		case metaDependencies:
			meta.DependencyCount = n
		}
	}
	return meta, rows.Err()
}

// GetNode retrieves a node by name. Returns sql.ErrNoRows when absent.
func (s *SQLiteStore) GetNode(ctx context.Context, name string) (graph.Node, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, kind, file, line FROM nodes WHERE name = ?", name)
	return scanNode(row)
}

// FindNodesByFile retrieves all nodes declared in a file.
func (s *SQLiteStore) FindNodesByFile(ctx context.Context, file string) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, kind, file, line FROM nodes WHERE file = ? ORDER BY position", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(r rowScanner) (graph.Node, error) {
	var n graph.Node
	var kind string
	if err := r.Scan(&n.Name, &kind, &n.File, &n.Line); err != nil {
		return graph.Node{}, err
	}
	n.Kind = extractor.Kind(kind)
	return n, nil
}

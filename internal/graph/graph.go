package graph

import (
	"sort"

	"scriptgraph/internal/extractor"
)

// Node is a declared script or mission.
type Node struct {
	Name string
	Kind extractor.Kind
	File string
	// 1-based line of the winning declaration; 0 when unknown.
	Line int
}

// Edge is a deduplicated dependency between two names. To may name an
// entity that was never declared.
type Edge struct {
	From string
	To   string
}

// Metadata holds the summary counts of a graph.
type Metadata struct {
	ScriptCount     int
	MissionCount    int
	DependencyCount int
}

// Graph is the assembled, read-only result of one analysis run.
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	Metadata Metadata

	// Name -> position in Nodes.
	index map[string]int
}

// New builds a graph from already assembled parts.
func New(nodes []Node, edges []Edge, meta Metadata) *Graph {
	g := &Graph{
		Nodes:    nodes,
		Edges:    edges,
		Metadata: meta,
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	g.RebuildIndices()
	return g
}

// RebuildIndices refreshes the name lookup after Nodes was modified.
func (g *Graph) RebuildIndices() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.Name] = i
	}
}

// Node looks up a declared entity by name.
func (g *Graph) Node(name string) (Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// HasNode reports whether name was declared.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// GetDependencies returns the targets name refers to, sorted.
func (g *Graph) GetDependencies(name string) []string {
	var deps []string
	for _, e := range g.Edges {
		if e.From == name {
			deps = append(deps, e.To)
		}
	}
	sort.Strings(deps)
	return deps
}

// GetDependents returns the sources that refer to name, sorted.
func (g *Graph) GetDependents(name string) []string {
	var deps []string
	for _, e := range g.Edges {
		if e.To == name {
			deps = append(deps, e.From)
		}
	}
	sort.Strings(deps)
	return deps
}

// Unresolved returns edges whose target is not a declared entity.
func (g *Graph) Unresolved() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if !g.HasNode(e.To) {
			out = append(out, e)
		}
	}
	return out
}

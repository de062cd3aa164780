package retrieval

import (
	"sort"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"
)

// Direction selects which edges a traversal follows.
type Direction int

const (
	// Both follows dependencies and dependents.
	Both Direction = iota
	// Downstream follows only outgoing edges (what the seed reaches).
	Downstream
	// Upstream follows only incoming edges (what reaches the seed).
	Upstream
)

// Config controls how neighborhoods are extracted.
type Config struct {
	MaxHops   int
	Direction Direction
}

func DefaultConfig() Config {
	return Config{
		MaxHops:   1,
		Direction: Both,
	}
}

// Subgraph is the neighborhood of a set of seed names.
type Subgraph struct {
	MaxHops int
	SeedIDs []string
	NodeIDs []string
	// Hop distance from the nearest seed.
	Depth map[string]int
	Edges []graph.Edge
}

// Extract walks up to cfg.MaxHops edges away from seeds. Seeds that are
// neither declared nor referenced anywhere are dropped.
func Extract(g *graph.Graph, seeds []string, cfg Config) *Subgraph {
	if g == nil {
		return &Subgraph{Depth: map[string]int{}}
	}
	if cfg.MaxHops < 0 {
		cfg.MaxHops = 0
	}

	adj := make(map[string][]edgeHop)
	for _, e := range g.Edges {
		if cfg.Direction != Upstream {
			adj[e.From] = append(adj[e.From], edgeHop{to: e.To, edge: e})
		}
		if cfg.Direction != Downstream {
			adj[e.To] = append(adj[e.To], edgeHop{to: e.From, edge: e})
		}
	}

	visitedDepth := make(map[string]int, len(seeds))
	queue := make([]queueItem, 0, len(seeds))
	for _, id := range seeds {
		if _, seen := visitedDepth[id]; seen {
			continue
		}
		if !g.HasNode(id) && !onEdge(g, id) {
			continue
		}
		visitedDepth[id] = 0
		queue = append(queue, queueItem{id: id, depth: 0})
	}
	seedIDs := sortedKeys(visitedDepth)

	edgeSeen := make(map[graph.Edge]bool)
	edges := make([]graph.Edge, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= cfg.MaxHops {
			continue
		}

		for _, next := range adj[cur.id] {
			if !edgeSeen[next.edge] {
				edgeSeen[next.edge] = true
				edges = append(edges, next.edge)
			}

			nextDepth := cur.depth + 1
			prevDepth, seen := visitedDepth[next.to]
			if !seen || nextDepth < prevDepth {
				visitedDepth[next.to] = nextDepth
				queue = append(queue, queueItem{id: next.to, depth: nextDepth})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From == edges[j].From {
			return edges[i].To < edges[j].To
		}
		return edges[i].From < edges[j].From
	})

	return &Subgraph{
		MaxHops: cfg.MaxHops,
		SeedIDs: seedIDs,
		NodeIDs: sortedKeys(visitedDepth),
		Depth:   visitedDepth,
		Edges:   edges,
	}
}

// Graph materializes the neighborhood as a standalone graph. Undeclared
// targets stay edge-only, as in the full graph.
func (s *Subgraph) Graph(full *graph.Graph) *graph.Graph {
	var nodes []graph.Node
	var meta graph.Metadata
	for _, id := range s.NodeIDs {
		n, ok := full.Node(id)
		if !ok {
			continue
		}
		nodes = append(nodes, n)
		if n.Kind == extractor.KindMission {
			meta.MissionCount++
		} else {
			meta.ScriptCount++
		}
	}
	meta.DependencyCount = len(s.Edges)
	return graph.New(nodes, s.Edges, meta)
}

type queueItem struct {
	id    string
	depth int
}

type edgeHop struct {
	to   string
	edge graph.Edge
}

// onEdge reports whether an undeclared name still appears in the graph,
// as a target or as the context of an indented declaration.
func onEdge(g *graph.Graph, name string) bool {
	return len(g.GetDependents(name)) > 0 || len(g.GetDependencies(name)) > 0
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

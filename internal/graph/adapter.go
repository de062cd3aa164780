package graph

import "scriptgraph/internal/extractor"

// View converts the graph into its serialized record form.
func (g *Graph) View() View {
	v := View{
		Nodes: make([]NodeView, 0, len(g.Nodes)),
		Edges: make([]EdgeView, 0, len(g.Edges)),
		Metadata: MetadataView{
			TotalScripts:      g.Metadata.ScriptCount,
			TotalMissions:     g.Metadata.MissionCount,
			TotalDependencies: g.Metadata.DependencyCount,
			GeneratedBy:       GeneratedBy,
		},
	}
	for _, n := range g.Nodes {
		kind := string(n.Kind)
		v.Nodes = append(v.Nodes, NodeView{
			ID:    n.Name,
			Label: n.Name,
			Type:  kind,
			File:  n.File,
			Group: kind,
		})
	}
	for _, e := range g.Edges {
		v.Edges = append(v.Edges, EdgeView{From: e.From, To: e.To, Arrows: ArrowsTo})
	}
	return v
}

// FromView rebuilds a graph from its serialized form.
func FromView(v View) *Graph {
	nodes := make([]Node, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		kind := extractor.Kind(n.Type)
		if kind == "" {
			kind = extractor.KindUnknown
		}
		nodes = append(nodes, Node{Name: n.ID, Kind: kind, File: n.File})
	}
	edges := make([]Edge, 0, len(v.Edges))
	for _, e := range v.Edges {
		edges = append(edges, Edge{From: e.From, To: e.To})
	}
	return New(nodes, edges, Metadata{
		ScriptCount:     v.Metadata.TotalScripts,
		MissionCount:    v.Metadata.TotalMissions,
		DependencyCount: v.Metadata.TotalDependencies,
	})
}

package graph

// GeneratedBy is stamped into every serialized graph.
const GeneratedBy = "Galaxy Trucker Script Graph Analyzer"

// ArrowsTo is the only edge direction the renderer needs.
const ArrowsTo = "to"

// NodeView is the serialized form of a Node. Type and Group both carry
// the resolved kind; the renderer styles by group.
type NodeView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	File  string `json:"file"`
	Group string `json:"group"`
}

type EdgeView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Arrows string `json:"arrows"`
}

type MetadataView struct {
	TotalScripts      int    `json:"total_scripts"`
	TotalMissions     int    `json:"total_missions"`
	TotalDependencies int    `json:"total_dependencies"`
	GeneratedBy       string `json:"generated_by"`
}

// View is the self-describing record handed to report emitters.
type View struct {
	Nodes    []NodeView   `json:"nodes"`
	Edges    []EdgeView   `json:"edges"`
	Metadata MetadataView `json:"metadata"`
}

package report

import (
	"fmt"
	"strings"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"
)

// Mermaid renders g as a top-down flowchart block. Scripts are rounded,
// missions square, and undeclared targets hexagons.
func Mermaid(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")

	for _, n := range g.Nodes {
		id := mermaidID(n.Name)
		switch n.Kind {
		case extractor.KindScript:
			sb.WriteString(fmt.Sprintf("    %s(%q):::script\n", id, n.Name))
		case extractor.KindMission:
			sb.WriteString(fmt.Sprintf("    %s[%q]:::mission\n", id, n.Name))
		default:
			sb.WriteString(fmt.Sprintf("    %s{{%q}}:::unknown\n", id, n.Name))
		}
	}

	seen := make(map[string]bool)
	for _, e := range g.Unresolved() {
		if seen[e.To] {
			continue
		}
		seen[e.To] = true
		sb.WriteString(fmt.Sprintf("    %s{{%q}}:::unknown\n", mermaidID(e.To), e.To))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", mermaidID(e.From), mermaidID(e.To)))
	}

	sb.WriteString("    classDef script fill:#ff6b6b,stroke:#ff5252\n")
	sb.WriteString("    classDef mission fill:#4ecdc4,stroke:#26a69a\n")
	sb.WriteString("    classDef unknown fill:#ffa726,stroke:#ff9800\n")
	sb.WriteString("```\n")
	return sb.String()
}

// mermaidID prefixes names so keywords such as "end" and leading digits
// never reach the parser. Names are word characters only.
func mermaidID(name string) string {
	return "n_" + name
}

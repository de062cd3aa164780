package report

import (
	"fmt"
	"io"
	"strconv"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteSummary prints the counts and the most referenced targets of g.
func WriteSummary(w io.Writer, g *graph.Graph, top int) error {
	kinds := g.KindCounts()

	counts := table.NewWriter()
	counts.SetOutputMirror(w)
	counts.SetStyle(table.StyleLight)
	counts.AppendHeader(table.Row{"Metric", "Value"})
	counts.AppendRows([]table.Row{
		{"Scripts", g.Metadata.ScriptCount},
		{"Missions", g.Metadata.MissionCount},
		{"Nodes", len(g.Nodes)},
		{"  resolved as script", kinds[extractor.KindScript]},
		{"  resolved as mission", kinds[extractor.KindMission]},
		{"Dependencies", g.Metadata.DependencyCount},
		{"Unresolved targets", len(g.UnresolvedTargetCounts())},
	})
	counts.Render()

	ranks := g.TopTargets(top)
	if len(ranks) == 0 {
		_, err := fmt.Fprintln(w, "(no dependencies)")
		return err
	}

	targets := table.NewWriter()
	targets.SetOutputMirror(w)
	targets.SetStyle(table.StyleLight)
	targets.AppendHeader(table.Row{"Target", "Referenced by", "Declared"})
	for _, r := range ranks {
		targets.AppendRow(table.Row{r.Name, r.InDegree, strconv.FormatBool(r.Declared)})
	}
	targets.Render()
	return nil
}

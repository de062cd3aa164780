package analysis

import (
	"testing"

	"scriptgraph/internal/extractor"
	"scriptgraph/internal/git"
	"scriptgraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// act2.txt holds Hangar (lines 1-9) and Dock (line 10 to EOF).
func campaign() *graph.Graph {
	return graph.New(
		[]graph.Node{
			{Name: "Intro", Kind: extractor.KindScript, File: "/game/campaign/act1.txt", Line: 1},
			{Name: "Hangar", Kind: extractor.KindScript, File: "/game/campaign/act2.txt", Line: 1},
			{Name: "Dock", Kind: extractor.KindScript, File: "/game/campaign/act2.txt", Line: 10},
			{Name: "Finale", Kind: extractor.KindScript, File: "/game/campaign/act3.txt", Line: 1},
			{Name: "first_flight", Kind: extractor.KindMission, File: "/game/campaign/missions.yaml", Line: 1},
		},
		[]graph.Edge{
			{From: "Intro", To: "Hangar"},
			{From: "Finale", To: "Dock"},
			{From: "Hangar", To: "first_flight"},
			{From: "Dock", To: "Hangar"},
		},
		graph.Metadata{ScriptCount: 4, MissionCount: 1, DependencyCount: 4},
	)
}

func names(nodes []graph.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestAnalyzer_AnalyzeImpact(t *testing.T) {
	a := NewAnalyzer(campaign())

	t.Run("Change inside one block", func(t *testing.T) {
		report := a.AnalyzeImpact([]git.ChangedFile{
			{Path: "campaign/act2.txt", Ranges: []git.LineRange{{Start: 4, End: 5}}},
			{Path: "campaign/README.md", Ranges: []git.LineRange{{Start: 1, End: 1}}},
		})

		assert.Equal(t, []string{"Hangar"}, names(report.DirectlyAffected), "Dock starts at line 10")
		assert.ElementsMatch(t, []string{"Intro", "Dock"}, names(report.IndirectlyAffected))
		assert.Equal(t, []string{"campaign/README.md"}, report.UnmatchedFiles)
	})

	t.Run("Change in the last block runs to EOF", func(t *testing.T) {
		report := a.AnalyzeImpact([]git.ChangedFile{
			{Path: "campaign/act2.txt", Ranges: []git.LineRange{{Start: 200, End: 201}}},
		})
		assert.Equal(t, []string{"Dock"}, names(report.DirectlyAffected))
		assert.Equal(t, []string{"Finale"}, names(report.IndirectlyAffected))
	})

	t.Run("Change spanning both blocks", func(t *testing.T) {
		report := a.AnalyzeImpact([]git.ChangedFile{
			{Path: "campaign/act2.txt", Ranges: []git.LineRange{{Start: 9, End: 10}}},
		})
		require.Len(t, report.DirectlyAffected, 2)
		assert.Equal(t, []string{"Dock", "Hangar"}, names(report.DirectlyAffected))
		assert.ElementsMatch(t, []string{"Intro", "Finale"}, names(report.IndirectlyAffected),
			"Dock calls Hangar but is already direct")
	})

	t.Run("No ranges means the whole file", func(t *testing.T) {
		report := a.AnalyzeImpact([]git.ChangedFile{{Path: "campaign/act2.txt"}})
		assert.Equal(t, []string{"Dock", "Hangar"}, names(report.DirectlyAffected))
	})
}

func TestAnalyzer_LinesBeforeFirstDeclaration(t *testing.T) {
	g := graph.New(
		[]graph.Node{{Name: "Intro", Kind: extractor.KindScript, File: "act1.txt", Line: 5}},
		nil,
		graph.Metadata{ScriptCount: 1},
	)
	report := NewAnalyzer(g).AnalyzeImpact([]git.ChangedFile{
		{Path: "act1.txt", Ranges: []git.LineRange{{Start: 1, End: 2}}},
	})
	assert.Empty(t, report.DirectlyAffected)
	assert.Empty(t, report.UnmatchedFiles, "the file still declares Intro")
}

func TestSamePath(t *testing.T) {
	assert.True(t, samePath("campaign/act1.txt", "campaign/act1.txt"))
	assert.True(t, samePath("/repo/campaign/act1.txt", "campaign/act1.txt"))
	assert.True(t, samePath("act1.txt", "server/campaign/act1.txt"))
	assert.False(t, samePath("campaign/xact1.txt", "act1.txt"))
	assert.False(t, samePath("campaign/act1.txt", "campaign/act2.txt"))
}

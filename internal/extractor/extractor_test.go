package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"scriptgraph/internal/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestExtractEntities_Script(t *testing.T) {
	entities := ExtractEntities(readFixture(t, "act1.txt"), corpus.FormatScript)

	t.Run("Only line-start declarations", func(t *testing.T) {
		require.Len(t, entities, 2, "indented SCRIPT lines and SCRIPT_NOTE must not declare")
		assert.Equal(t, Entity{Name: "Intro", Kind: KindScript, Line: 3}, entities[0])
		assert.Equal(t, Entity{Name: "Hangar", Kind: KindScript, Line: 8}, entities[1])
	})

	t.Run("No declarations", func(t *testing.T) {
		assert.Empty(t, ExtractEntities("GO A\nSUB_SCRIPT B\n", corpus.FormatScript))
		assert.Empty(t, ExtractEntities("", corpus.FormatScript))
	})

	t.Run("Declaration with trailing text", func(t *testing.T) {
		got := ExtractEntities("SCRIPT Boss_2 // final\r\n", corpus.FormatScript)
		require.Len(t, got, 1)
		assert.Equal(t, "Boss_2", got[0].Name)
	})
}

func TestExtractEntities_Data(t *testing.T) {
	entities := ExtractEntities(readFixture(t, "missions.yaml"), corpus.FormatData)

	var names []string
	for _, e := range entities {
		assert.Equal(t, KindMission, e.Kind)
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"tutorial_flight", "second_run"}, names)

	t.Run("Reserved keys never become missions", func(t *testing.T) {
		for _, key := range []string{"settings", "missions", "default", "common"} {
			assert.Empty(t, ExtractEntities(key+":\n", corpus.FormatData), key)
			assert.Empty(t, ExtractEntities(key+":   \t\n", corpus.FormatData), key)
			assert.True(t, IsReservedKey(key))
		}
	})

	t.Run("Keys with inline values are ignored", func(t *testing.T) {
		assert.Empty(t, ExtractEntities("name: value\n", corpus.FormatData))
	})

	t.Run("Script syntax in data file is ignored", func(t *testing.T) {
		assert.Empty(t, ExtractEntities("SCRIPT A\n", corpus.FormatData))
	})
}

func TestExtractReferences_Fixture(t *testing.T) {
	refs := ExtractReferences(readFixture(t, "act1.txt"))

	expected := []Reference{
		{Source: "Intro", Target: "Hangar", Kind: RefGo, Line: 5},
		{Source: "Intro", Target: "ShowTips", Kind: RefSubScript, Line: 6},
		{Source: "Intro", Target: "Hangar", Kind: RefGo, Line: 7},
		{Source: "Hangar", Target: "tutorial_flight", Kind: RefLaunchMission, Line: 10},
		{Source: "Hangar", Target: "Intro", Kind: RefGo, Line: 12},
		{Source: "Hangar", Target: "ShowTips", Kind: RefSubScript, Line: 12},
		{Source: "Indented", Target: "Intro", Kind: RefGo, Line: 15},
	}
	assert.Equal(t, expected, refs)
}

func TestExtractReferences_Attribution(t *testing.T) {
	refs := ExtractReferences("SCRIPT A\nGO B\nSCRIPT C\nSUB_SCRIPT D")
	require.Len(t, refs, 2)
	assert.Equal(t, "A", refs[0].Source)
	assert.Equal(t, "B", refs[0].Target)
	assert.Equal(t, "C", refs[1].Source)
	assert.Equal(t, "D", refs[1].Target)
}

func TestExtractReferences_LaunchMissionQuotes(t *testing.T) {
	for _, line := range []string{
		`LAUNCH_MISSION "Foo"`,
		`LAUNCH_MISSION 'Foo'`,
		`LAUNCH_MISSION Foo`,
	} {
		refs := ExtractReferences("SCRIPT A\n" + line)
		require.Len(t, refs, 1, line)
		assert.Equal(t, "A", refs[0].Source)
		assert.Equal(t, "Foo", refs[0].Target, line)
		assert.Equal(t, RefLaunchMission, refs[0].Kind)
	}
}

func TestExtractReferences_NonMatches(t *testing.T) {
	refs := ExtractReferences("SCRIPT A\nGOTO B\nALGO C\nGO\nSUB_SCRIPTX D\n")
	assert.Empty(t, refs)
}

func TestScanner_States(t *testing.T) {
	sc := NewScanner()
	assert.Equal(t, StateNoContext, sc.State())
	assert.Equal(t, "", sc.Current())

	t.Run("References before a declaration are dropped", func(t *testing.T) {
		assert.Empty(t, sc.Feed("GO Early"))
		assert.Equal(t, StateNoContext, sc.State())
	})

	t.Run("Declaration enters context and yields nothing", func(t *testing.T) {
		assert.Empty(t, sc.Feed("  SCRIPT First GO Ignored"))
		assert.Equal(t, StateInContext, sc.State())
		assert.Equal(t, "First", sc.Current())
	})

	t.Run("Multiple constructs on one line", func(t *testing.T) {
		refs := sc.Feed(`IF x GO Next LAUNCH_MISSION "m1"`)
		require.Len(t, refs, 2)
		assert.Equal(t, "Next", refs[0].Target)
		assert.Equal(t, "m1", refs[1].Target)
		assert.Equal(t, 3, refs[1].Line)
	})

	t.Run("New declaration switches context", func(t *testing.T) {
		sc.Feed("SCRIPT Second")
		assert.Equal(t, StateInContext, sc.State())
		assert.Equal(t, "Second", sc.Current())
		refs := sc.Feed("SUB_SCRIPT Helper")
		require.Len(t, refs, 1)
		assert.Equal(t, "Second", refs[0].Source)
	})

	assert.Equal(t, "in_context", StateInContext.String())
}

func TestExtract_UnicodeNames(t *testing.T) {
	t.Run("Script declaration keeps the whole name", func(t *testing.T) {
		got := ExtractEntities("SCRIPT Città\n", corpus.FormatScript)
		assert.Equal(t, []Entity{{Name: "Città", Kind: KindScript, Line: 1}}, got)
	})

	t.Run("Mission key with accents", func(t *testing.T) {
		got := ExtractEntities("missão_1:\n  ship: I\nКорабль:\n", corpus.FormatData)
		assert.Equal(t, []Entity{
			{Name: "missão_1", Kind: KindMission, Line: 1},
			{Name: "Корабль", Kind: KindMission, Line: 3},
		}, got)
	})

	t.Run("References and word boundaries", func(t *testing.T) {
		refs := ExtractReferences("SCRIPT Città\nGO Núcleo\néGO X\nLAUNCH_MISSION 'misión'\n")
		require.Len(t, refs, 2)
		assert.Equal(t, "Città", refs[0].Source)
		assert.Equal(t, "Núcleo", refs[0].Target)
		assert.Equal(t, "misión", refs[1].Target)
	})
}

func TestExtract_LineEndings(t *testing.T) {
	t.Run("Lone carriage returns split lines", func(t *testing.T) {
		refs := ExtractReferences("SCRIPT A\rGO B\r")
		require.Len(t, refs, 1)
		assert.Equal(t, "A", refs[0].Source)
		assert.Equal(t, "B", refs[0].Target)
		assert.Equal(t, 2, refs[0].Line)
	})

	t.Run("CRLF keeps line numbers", func(t *testing.T) {
		got := ExtractEntities("SCRIPT A\r\n\r\nSCRIPT B\r\n", corpus.FormatScript)
		assert.Equal(t, []Entity{
			{Name: "A", Kind: KindScript, Line: 1},
			{Name: "B", Kind: KindScript, Line: 3},
		}, got)
	})
}

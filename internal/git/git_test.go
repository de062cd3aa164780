package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiff(t *testing.T) {
	diff := `diff --git a/campaign/act1.txt b/campaign/act1.txt
index 1111111..2222222 100644
--- a/campaign/act1.txt
+++ b/campaign/act1.txt
@@ -3 +3,2 @@ SCRIPT Intro
-  GO Hangar
+  GO Dock
+++ added line that looks like a header
@@ -10,2 +11,0 @@
-  SAY bye
-  SAY bye
diff --git a/campaign/missions.yaml b/campaign/missions.yaml
index 3333333..4444444 100644
--- a/campaign/missions.yaml
+++ b/campaign/missions.yaml
@@ -1 +1 @@
-old_mission:
+new_mission:
diff --git a/campaign/old.txt b/campaign/old.txt
deleted file mode 100644
index 5555555..0000000
--- a/campaign/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-SCRIPT Old
-  GO Intro
diff --git a/campaign/run.sh b/campaign/run.sh
old mode 100644
new mode 100755
`
	changes, err := parseDiff([]byte(diff))
	require.NoError(t, err)
	require.Len(t, changes, 4)

	t.Run("Hunks become new-side ranges", func(t *testing.T) {
		assert.Equal(t, "campaign/act1.txt", changes[0].Path)
		assert.Equal(t, []LineRange{{Start: 3, End: 4}, {Start: 11, End: 11}}, changes[0].Ranges,
			"a pure deletion touches the line it follows")
		assert.False(t, changes[0].Deleted)
	})

	t.Run("Single line hunk", func(t *testing.T) {
		assert.Equal(t, "campaign/missions.yaml", changes[1].Path)
		assert.Equal(t, []LineRange{{Start: 1, End: 1}}, changes[1].Ranges)
	})

	t.Run("Deleted file", func(t *testing.T) {
		assert.Equal(t, "campaign/old.txt", changes[2].Path)
		assert.True(t, changes[2].Deleted)
		assert.Equal(t, []LineRange{{Start: 1, End: 1}}, changes[2].Ranges)
	})

	t.Run("Mode change has no ranges", func(t *testing.T) {
		assert.Equal(t, "campaign/run.sh", changes[3].Path)
		assert.Empty(t, changes[3].Ranges)
	})
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChangedFile_Touches(t *testing.T) {
	f := ChangedFile{Path: "act1.txt", Ranges: []LineRange{{Start: 5, End: 7}, {Start: 20, End: 20}}}

	assert.True(t, f.Touches(1, 5))
	assert.True(t, f.Touches(7, 10))
	assert.False(t, f.Touches(8, 19))
	assert.True(t, f.Touches(15, 0), "open-ended span reaches line 20")
	assert.False(t, f.Touches(21, 0))

	whole := ChangedFile{Path: "run.sh"}
	assert.True(t, whole.Touches(100, 120))
}

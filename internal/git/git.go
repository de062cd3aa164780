package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// LineRange is an inclusive span of line numbers on the new side of a diff.
type LineRange struct {
	Start int
	End   int
}

// ChangedFile is a file touched by a diff.
type ChangedFile struct {
	Path string
	// New-side spans touched by hunks. Empty means the whole file counts,
	// as for mode changes or binary files.
	Ranges []LineRange
	// The file is gone on the new side.
	Deleted bool
}

// Touches reports whether any changed span overlaps [start, end].
// end <= 0 means the span runs to the end of the file.
func (f ChangedFile) Touches(start, end int) bool {
	if len(f.Ranges) == 0 {
		return true
	}
	for _, r := range f.Ranges {
		if r.End >= start && (end <= 0 || r.Start <= end) {
			return true
		}
	}
	return false
}

// GetChangedFiles diffs the working tree against baseRef, limited to paths.
func GetChangedFiles(ctx context.Context, baseRef string, paths ...string) ([]ChangedFile, error) {
	args := []string{"diff", "-U0", "--no-color", baseRef}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	output, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return parseDiff(output)
}

// hunkHeader captures the new-side start and optional length of
// "@@ -a,b +c,d @@".
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

func parseDiff(output []byte) ([]ChangedFile, error) {
	var (
		changes []ChangedFile
		current *ChangedFile
		inHunks bool // an added "++ x" line reads as "+++ x"
	)
	flush := func() {
		if current != nil {
			changes = append(changes, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			inHunks = false
			current = &ChangedFile{}
			if i := strings.LastIndex(line, " b/"); i >= 0 {
				current.Path = line[i+len(" b/"):]
			}

		case current == nil:

		case !inHunks && strings.HasPrefix(line, "+++ "):
			target := strings.TrimPrefix(line, "+++ ")
			if target == "/dev/null" {
				current.Deleted = true
			} else {
				current.Path = strings.TrimPrefix(target, "b/")
			}

		case strings.HasPrefix(line, "@@"):
			inHunks = true
			if r, ok := parseHunk(line); ok {
				current.Ranges = append(current.Ranges, r)
			}
		}
	}
	flush()

	return changes, scanner.Err()
}

// parseHunk converts a hunk header into the new-side span it touches.
// A pure deletion (length 0) touches the line it follows, or line 1 when
// it removed the top of the file.
func parseHunk(header string) (LineRange, bool) {
	m := hunkHeader.FindStringSubmatch(header)
	if m == nil {
		return LineRange{}, false
	}
	start, _ := strconv.Atoi(m[1])
	count := 1
	if m[2] != "" {
		count, _ = strconv.Atoi(m[2])
	}
	if count == 0 {
		start = max(start, 1)
		return LineRange{Start: start, End: start}, true
	}
	return LineRange{Start: start, End: start + count - 1}, true
}

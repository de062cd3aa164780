package extractor

import (
	"regexp"
	"strings"
)

// RefKind names the construct that produced a reference.
type RefKind string

const (
	RefGo            RefKind = "go"
	RefSubScript     RefKind = "sub_script"
	RefLaunchMission RefKind = "launch_mission"
)

// Reference is one raw call construct attributed to the enclosing script.
// Kind and Line are diagnostics; edge identity is (Source, Target).
type Reference struct {
	Source string
	Target string
	Kind   RefKind
	Line   int
}

type construct struct {
	kind    RefKind
	pattern *regexp.Regexp
}

var constructs = []construct{
	{RefGo, regexp.MustCompile(boundary + `GO\s+(` + ident + `)`)},
	{RefSubScript, regexp.MustCompile(boundary + `SUB_SCRIPT\s+(` + ident + `)`)},
	{RefLaunchMission, regexp.MustCompile(boundary + `LAUNCH_MISSION\s+["']?(` + ident + `)["']?`)},
}

// ScanState is the state of the line scanner.
type ScanState int

const (
	// StateNoContext: no SCRIPT declaration seen yet; lines are ignored.
	StateNoContext ScanState = iota
	// StateInContext: references are attributed to the current script.
	StateInContext
)

func (s ScanState) String() string {
	switch s {
	case StateNoContext:
		return "no_context"
	case StateInContext:
		return "in_context"
	default:
		return "invalid"
	}
}

// Scanner walks a script file line by line and attributes call constructs
// to the most recently declared script.
type Scanner struct {
	state   ScanState
	current string
	line    int
}

// NewScanner returns a scanner in StateNoContext.
func NewScanner() *Scanner {
	return &Scanner{state: StateNoContext}
}

// State returns the current scanner state.
func (s *Scanner) State() ScanState {
	return s.state
}

// Current returns the script references are attributed to, or "".
func (s *Scanner) Current() string {
	return s.current
}

// Feed consumes one line and returns the references it contains.
func (s *Scanner) Feed(raw string) []Reference {
	s.line++
	line := strings.TrimSpace(raw)

	if name, ok := matchScriptDecl(line); ok {
		s.state = StateInContext
		s.current = name
		return nil
	}
	if s.state == StateNoContext {
		return nil
	}

	var refs []Reference
	for _, c := range constructs {
		m := c.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		refs = append(refs, Reference{
			Source: s.current,
			Target: m[1],
			Kind:   c.kind,
			Line:   s.line,
		})
	}
	return refs
}

// ExtractReferences scans a whole script file. The result is the raw
// multiset; duplicates are collapsed by the graph registry.
func ExtractReferences(content string) []Reference {
	sc := NewScanner()
	var refs []Reference
	for _, line := range splitLines(content) {
		refs = append(refs, sc.Feed(line)...)
	}
	return refs
}

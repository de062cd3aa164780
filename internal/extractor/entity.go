package extractor

import (
	"regexp"
	"strings"

	"scriptgraph/internal/corpus"
)

// Kind classifies a declared entity.
type Kind string

const (
	KindScript  Kind = "script"
	KindMission Kind = "mission"
	KindUnknown Kind = "unknown"
)

// Entity is a named declaration found in a corpus file.
type Entity struct {
	Name string
	Kind Kind
	Line int // 1-based
}

// Names are Unicode letters, digits and underscores. boundary stands in
// for \b, which is ASCII-only in Go.
const (
	ident    = `[\p{L}\p{N}_]+`
	boundary = `(?:^|[^\p{L}\p{N}_])`
)

var (
	scriptDecl = regexp.MustCompile(`^SCRIPT\s+(` + ident + `)`)
	missionKey = regexp.MustCompile(`^(` + ident + `):\s*$`)
)

// reservedKeys are top-level YAML sections that configure a campaign
// rather than declare a mission.
var reservedKeys = map[string]bool{
	"missions": true,
	"default":  true,
	"common":   true,
	"settings": true,
}

// IsReservedKey reports whether name is a structural section key.
func IsReservedKey(name string) bool {
	return reservedKeys[name]
}

// ExtractEntities returns the declarations found in content, in file order.
// Matching is anchored at the raw line start; indented lines never declare.
func ExtractEntities(content string, format corpus.Format) []Entity {
	var entities []Entity
	for i, line := range splitLines(content) {
		switch format {
		case corpus.FormatScript:
			if name, ok := matchScriptDecl(line); ok {
				entities = append(entities, Entity{Name: name, Kind: KindScript, Line: i + 1})
			}
		case corpus.FormatData:
			m := missionKey.FindStringSubmatch(line)
			if m == nil || IsReservedKey(m[1]) {
				continue
			}
			entities = append(entities, Entity{Name: m[1], Kind: KindMission, Line: i + 1})
		}
	}
	return entities
}

func matchScriptDecl(line string) (string, bool) {
	m := scriptDecl.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines treats \r\n, \n and a lone \r as line breaks.
func splitLines(content string) []string {
	return strings.Split(newlines.Replace(content), "\n")
}

package analysis

import (
	"path/filepath"
	"sort"
	"strings"

	"scriptgraph/internal/git"
	"scriptgraph/internal/graph"
)

// ImpactReport summarizes the entities affected by changed corpus files.
type ImpactReport struct {
	// Declaration block overlaps a changed line.
	DirectlyAffected []graph.Node
	// Not changed themselves but refer to a directly affected entity.
	IndirectlyAffected []graph.Node
	// Changed files that declare nothing known to the graph.
	UnmatchedFiles []string
}

// block is the line span owned by one declaration: from its own line up to
// the line before the next declaration in the same file. end 0 is EOF.
type block struct {
	node  graph.Node
	start int
	end   int
}

// Analyzer performs impact analysis on an assembled graph.
type Analyzer struct {
	g      *graph.Graph
	blocks map[string][]block // by node file
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g, blocks: declarationBlocks(g.Nodes)}
}

func declarationBlocks(nodes []graph.Node) map[string][]block {
	byFile := make(map[string][]graph.Node)
	for _, n := range nodes {
		byFile[n.File] = append(byFile[n.File], n)
	}

	out := make(map[string][]block, len(byFile))
	for file, ns := range byFile {
		sort.SliceStable(ns, func(i, j int) bool { return ns[i].Line < ns[j].Line })
		blocks := make([]block, 0, len(ns))
		for i, n := range ns {
			// Without a known line the whole file is the block.
			if n.Line <= 0 {
				blocks = append(blocks, block{node: n, start: 1})
				continue
			}
			b := block{node: n, start: n.Line}
			if i+1 < len(ns) && ns[i+1].Line > n.Line {
				b.end = ns[i+1].Line - 1
			}
			blocks = append(blocks, b)
		}
		out[file] = blocks
	}
	return out
}

// AnalyzeImpact identifies which entities are affected by the given changes.
// Indirect impact is one hop: the callers of directly affected entities.
func (a *Analyzer) AnalyzeImpact(changes []git.ChangedFile) *ImpactReport {
	report := &ImpactReport{
		DirectlyAffected:   []graph.Node{},
		IndirectlyAffected: []graph.Node{},
	}

	seenDirect := make(map[string]bool)
	seenIndirect := make(map[string]bool)

	// 1. Find Direct Impacts
	for _, change := range changes {
		matched := false
		for file, blocks := range a.blocks {
			if !samePath(file, change.Path) {
				continue
			}
			matched = true
			for _, b := range blocks {
				if seenDirect[b.node.Name] || !change.Touches(b.start, b.end) {
					continue
				}
				report.DirectlyAffected = append(report.DirectlyAffected, b.node)
				seenDirect[b.node.Name] = true
			}
		}
		if !matched {
			report.UnmatchedFiles = append(report.UnmatchedFiles, change.Path)
		}
	}
	sort.Slice(report.DirectlyAffected, func(i, j int) bool {
		return report.DirectlyAffected[i].Name < report.DirectlyAffected[j].Name
	})

	// 2. Find Indirect Impacts (Callers)
	for _, node := range report.DirectlyAffected {
		for _, name := range a.g.GetDependents(node.Name) {
			if seenDirect[name] || seenIndirect[name] {
				continue
			}
			dep, ok := a.g.Node(name)
			if !ok {
				continue
			}
			report.IndirectlyAffected = append(report.IndirectlyAffected, dep)
			seenIndirect[name] = true
		}
	}

	return report
}

// samePath compares an entity origin with a repository-relative diff path.
// Either side may carry a longer prefix than the other.
func samePath(origin, changed string) bool {
	o := filepath.ToSlash(filepath.Clean(origin))
	c := filepath.ToSlash(filepath.Clean(changed))
	if o == c {
		return true
	}
	return strings.HasSuffix(o, "/"+c) || strings.HasSuffix(c, "/"+o)
}

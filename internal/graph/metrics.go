package graph

import (
	"sort"

	"scriptgraph/internal/extractor"
)

// UnresolvedTargetCounts counts, per undeclared target, how many sources
// refer to it.
func (g *Graph) UnresolvedTargetCounts() map[string]int {
	counts := make(map[string]int)
	if g == nil {
		return counts
	}
	for _, e := range g.Unresolved() {
		counts[e.To]++
	}
	return counts
}

// KindCounts counts nodes by resolved kind.
func (g *Graph) KindCounts() map[extractor.Kind]int {
	counts := make(map[extractor.Kind]int)
	if g == nil {
		return counts
	}
	for _, n := range g.Nodes {
		counts[n.Kind]++
	}
	return counts
}

// TargetRank is a name with its number of incoming edges.
type TargetRank struct {
	Name     string
	InDegree int
	Declared bool
}

// TopTargets returns the n most referenced names, ties broken by name.
func (g *Graph) TopTargets(n int) []TargetRank {
	in := make(map[string]int)
	for _, e := range g.Edges {
		in[e.To]++
	}
	ranks := make([]TargetRank, 0, len(in))
	for name, deg := range in {
		ranks = append(ranks, TargetRank{Name: name, InDegree: deg, Declared: g.HasNode(name)})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].InDegree != ranks[j].InDegree {
			return ranks[i].InDegree > ranks[j].InDegree
		}
		return ranks[i].Name < ranks[j].Name
	})
	if n >= 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

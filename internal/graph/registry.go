package graph

import (
	"sort"

	"scriptgraph/internal/extractor"
)

// Registry accumulates entities and references during a single analysis
// run. It is owned by one analyzer and must be Reset before reuse.
type Registry struct {
	scripts  map[string]origin
	missions map[string]origin
	kinds    map[string]extractor.Kind
	deps     map[string]map[string]struct{}

	// First-registration order, kept so node and edge output is stable.
	scriptOrder  []string
	missionOrder []string
	sourceOrder  []string
}

// origin is where a declaration was found.
type origin struct {
	file string
	line int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset discards everything registered so far.
func (r *Registry) Reset() {
	r.scripts = make(map[string]origin)
	r.missions = make(map[string]origin)
	r.kinds = make(map[string]extractor.Kind)
	r.deps = make(map[string]map[string]struct{})
	r.scriptOrder = nil
	r.missionOrder = nil
	r.sourceOrder = nil
}

// Registration describes what a Register call overwrote, if anything.
type Registration struct {
	Redeclared bool           // same name already present in the same category
	PrevFile   string         // origin of the overwritten declaration
	KindChange bool           // name previously resolved to a different kind
	PrevKind   extractor.Kind // kind before this call
}

// Register records a declaration. Later declarations of the same name win,
// both within a category and for the global kind of the name.
func (r *Registry) Register(e extractor.Entity, file string) Registration {
	var reg Registration
	if prev, ok := r.kinds[e.Name]; ok && prev != e.Kind {
		reg.KindChange = true
		reg.PrevKind = prev
	}

	at := origin{file: file, line: e.Line}
	switch e.Kind {
	case extractor.KindScript:
		if prev, ok := r.scripts[e.Name]; ok {
			reg.Redeclared, reg.PrevFile = true, prev.file
		} else {
			r.scriptOrder = append(r.scriptOrder, e.Name)
		}
		r.scripts[e.Name] = at
	case extractor.KindMission:
		if prev, ok := r.missions[e.Name]; ok {
			reg.Redeclared, reg.PrevFile = true, prev.file
		} else {
			r.missionOrder = append(r.missionOrder, e.Name)
		}
		r.missions[e.Name] = at
	default:
		return reg
	}

	r.kinds[e.Name] = e.Kind
	return reg
}

// AddDependency records source -> target and reports whether the pair is new.
func (r *Registry) AddDependency(source, target string) bool {
	set, ok := r.deps[source]
	if !ok {
		set = make(map[string]struct{})
		r.deps[source] = set
		r.sourceOrder = append(r.sourceOrder, source)
	}
	if _, dup := set[target]; dup {
		return false
	}
	set[target] = struct{}{}
	return true
}

// ScriptCount returns the number of distinct script names.
func (r *Registry) ScriptCount() int { return len(r.scripts) }

// MissionCount returns the number of distinct mission names.
func (r *Registry) MissionCount() int { return len(r.missions) }

// DependencyCount returns the number of distinct (source, target) pairs.
func (r *Registry) DependencyCount() int {
	n := 0
	for _, set := range r.deps {
		n += len(set)
	}
	return n
}

// KindOf returns the resolved kind for name, or KindUnknown.
func (r *Registry) KindOf(name string) extractor.Kind {
	if k, ok := r.kinds[name]; ok {
		return k
	}
	return extractor.KindUnknown
}

// Assemble merges both categories and the dependency sets into a Graph.
//
// A name present in both categories yields one node. Its file and line come
// from the mission map and its kind from the global kind map.
func (r *Registry) Assemble() *Graph {
	nodes := make([]Node, 0, len(r.scripts)+len(r.missions))
	for _, name := range r.scriptOrder {
		at := r.scripts[name]
		if m, ok := r.missions[name]; ok {
			at = m
		}
		nodes = append(nodes, Node{Name: name, Kind: r.KindOf(name), File: at.file, Line: at.line})
	}
	for _, name := range r.missionOrder {
		if _, dup := r.scripts[name]; dup {
			continue
		}
		at := r.missions[name]
		nodes = append(nodes, Node{Name: name, Kind: r.KindOf(name), File: at.file, Line: at.line})
	}

	edges := make([]Edge, 0, r.DependencyCount())
	for _, source := range r.sourceOrder {
		targets := make([]string, 0, len(r.deps[source]))
		for t := range r.deps[source] {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			edges = append(edges, Edge{From: source, To: t})
		}
	}

	return New(nodes, edges, Metadata{
		ScriptCount:     r.ScriptCount(),
		MissionCount:    r.MissionCount(),
		DependencyCount: r.DependencyCount(),
	})
}

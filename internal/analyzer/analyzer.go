package analyzer

import (
	"errors"
	"io"
	"log/slog"

	"scriptgraph/internal/corpus"
	"scriptgraph/internal/extractor"
	"scriptgraph/internal/graph"
)

// Stats describes what one run touched.
type Stats struct {
	ScriptFiles   int
	DataFiles     int
	SkippedFiles  int
	Entities      int
	RawReferences int
	MissingCorpus bool
}

// Analyzer runs the two-phase extraction over a corpus source.
// Each Run starts from an empty registry; nothing survives between runs.
type Analyzer struct {
	source   corpus.Source
	logger   *slog.Logger
	registry *graph.Registry
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an analyzer reading from src.
func New(src corpus.Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:   src,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: graph.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run analyzes the whole corpus and returns the assembled graph. It never
// fails: unreadable files are skipped and a missing corpus yields an empty
// graph.
func (a *Analyzer) Run() (*graph.Graph, Stats) {
	a.registry.Reset()
	var stats Stats

	files, err := a.source.List()
	if err != nil {
		if errors.Is(err, corpus.ErrMissingCorpus) {
			stats.MissingCorpus = true
			a.logger.Warn("corpus directory not found, producing empty graph", "error", err)
		} else {
			a.logger.Error("failed to list corpus, producing empty graph", "error", err)
		}
		return a.registry.Assemble(), stats
	}

	scripts, data := corpus.Split(files)
	stats.ScriptFiles = len(scripts)
	stats.DataFiles = len(data)
	a.logger.Info("scanning corpus", "scripts", len(scripts), "data_files", len(data))

	// Population phase. Script contents are kept for the reference phase so
	// each file is read once per run.
	contents := make(map[string]string, len(scripts))
	for _, f := range scripts {
		content, ok := a.read(f, &stats)
		if !ok {
			continue
		}
		contents[f.Name] = content
		a.populate(f, content, &stats)
	}
	for _, f := range data {
		content, ok := a.read(f, &stats)
		if !ok {
			continue
		}
		a.populate(f, content, &stats)
	}

	// Reference phase.
	for _, f := range scripts {
		content, ok := contents[f.Name]
		if !ok {
			continue
		}
		for _, ref := range extractor.ExtractReferences(content) {
			stats.RawReferences++
			if a.registry.AddDependency(ref.Source, ref.Target) {
				a.logger.Debug("dependency",
					"kind", ref.Kind, "from", ref.Source, "to", ref.Target,
					"file", f.Path, "line", ref.Line)
			}
		}
	}

	g := a.registry.Assemble()
	a.logger.Info("graph assembled",
		"scripts", g.Metadata.ScriptCount,
		"missions", g.Metadata.MissionCount,
		"dependencies", g.Metadata.DependencyCount,
		"skipped_files", stats.SkippedFiles)
	return g, stats
}

func (a *Analyzer) read(f corpus.File, stats *Stats) (string, bool) {
	data, err := a.source.Read(f.Name)
	if err != nil {
		stats.SkippedFiles++
		a.logger.Warn("skipping unreadable file", "file", f.Path, "error", err)
		return "", false
	}
	return string(data), true
}

func (a *Analyzer) populate(f corpus.File, content string, stats *Stats) {
	for _, e := range extractor.ExtractEntities(content, f.Format) {
		stats.Entities++
		reg := a.registry.Register(e, f.Path)
		a.logger.Debug("entity", "kind", e.Kind, "name", e.Name, "file", f.Path, "line", e.Line)
		if reg.KindChange {
			a.logger.Warn("name declared with a different kind, later declaration wins",
				"name", e.Name, "previous", reg.PrevKind, "now", e.Kind, "file", f.Path)
		} else if reg.Redeclared {
			a.logger.Debug("redeclaration overrides earlier one",
				"name", e.Name, "previous_file", reg.PrevFile, "file", f.Path)
		}
	}
}

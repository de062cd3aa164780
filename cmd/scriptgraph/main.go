package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"scriptgraph/internal/analysis"
	"scriptgraph/internal/analyzer"
	"scriptgraph/internal/config"
	"scriptgraph/internal/corpus"
	"scriptgraph/internal/git"
	"scriptgraph/internal/graph"
	"scriptgraph/internal/report"
	"scriptgraph/internal/retrieval"
	"scriptgraph/internal/storage"
	"scriptgraph/internal/watch"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "scriptgraph",
		Short: "Dependency graph of campaign scripts and missions",
	}
	cfgPath string
	dbPath  string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultFile, "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the graph snapshot database (SQLite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every discovered entity and dependency")

	analyzeCmd.Flags().Bool("mermaid", false, "Also write a Mermaid flowchart")
	analyzeCmd.Flags().Bool("no-db", false, "Skip saving the SQLite snapshot")
	statsCmd.Flags().Int("top", 10, "Number of most referenced targets to list")
	inspectCmd.Flags().Int("hops", 1, "Neighborhood radius for --mermaid")
	inspectCmd.Flags().Bool("mermaid", false, "Print a Mermaid flowchart of the neighborhood")
	impactCmd.Flags().String("base", "HEAD", "Git ref to diff the corpus against")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig applies the corpus argument and --db on top of the config file.
func loadConfig(args []string) *config.Config {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if len(args) > 0 {
		cfg.Corpus.Root = args[0]
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func newSource(cfg *config.Config) *corpus.DirSource {
	src, err := corpus.NewDirSource(cfg.Corpus.Root, corpus.Patterns{
		Script: cfg.Corpus.ScriptGlobs,
		Data:   cfg.Corpus.DataGlobs,
	})
	if err != nil {
		log.Fatalf("Invalid corpus patterns: %v", err)
	}
	return src
}

// runOnce analyzes the corpus and writes every configured output.
func runOnce(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, withMermaid, withDB bool) (*graph.Graph, error) {
	start := time.Now()
	g, stats := a.Run()
	if stats.MissingCorpus {
		fmt.Printf("⚠️  Corpus directory not found: %s (writing empty graph)\n", cfg.Corpus.Root)
	}
	fmt.Printf("✅ Graph built in %v: %d scripts, %d missions, %d dependencies (%d files skipped)\n",
		time.Since(start), g.Metadata.ScriptCount, g.Metadata.MissionCount, g.Metadata.DependencyCount, stats.SkippedFiles)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath := filepath.Join(cfg.Output.Dir, cfg.Output.JSON)
	if err := report.SaveJSON(jsonPath, g); err != nil {
		return nil, err
	}
	fmt.Printf("💾 Graph saved to %s\n", jsonPath)

	htmlPath := filepath.Join(cfg.Output.Dir, cfg.Output.HTML)
	if err := report.SaveHTML(htmlPath, g); err != nil {
		return nil, err
	}
	fmt.Printf("🌐 Visualization saved to %s\n", htmlPath)

	if withMermaid {
		mdPath := filepath.Join(cfg.Output.Dir, cfg.Output.Mermaid)
		if err := os.WriteFile(mdPath, []byte(report.Mermaid(g)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write mermaid: %w", err)
		}
		fmt.Printf("🧭 Mermaid flowchart saved to %s\n", mdPath)
	}

	if withDB {
		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		if err := store.SaveGraph(ctx, g); err != nil {
			return nil, fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Printf("🗄️  Snapshot saved to %s\n", cfg.Storage.Path)
	}

	return g, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [corpus]",
	Short: "Analyze the corpus once and write the graph outputs",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args)
		withMermaid, _ := cmd.Flags().GetBool("mermaid")
		noDB, _ := cmd.Flags().GetBool("no-db")

		src := newSource(cfg)
		fmt.Printf("📂 Scanning corpus: %s\n", src.Root())
		a := analyzer.New(src, analyzer.WithLogger(newLogger(cfg)))
		if _, err := runOnce(cmd.Context(), cfg, a, withMermaid, !noDB); err != nil {
			log.Fatalf("Failed to write outputs: %v", err)
		}
		fmt.Println("🎉 Analysis complete!")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [corpus]",
	Short: "Print graph counts and the most referenced targets",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args)
		top, _ := cmd.Flags().GetInt("top")

		g, _ := analyzer.New(newSource(cfg), analyzer.WithLogger(newLogger(cfg))).Run()
		if err := report.WriteSummary(cmd.OutOrStdout(), g, top); err != nil {
			log.Fatalf("Failed to print summary: %v", err)
		}
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Show dependencies and dependents of one entity from the last snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(nil)

		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		hops := -1
		if withMermaid, _ := cmd.Flags().GetBool("mermaid"); withMermaid {
			hops, _ = cmd.Flags().GetInt("hops")
		}
		if err := inspect(cmd.Context(), cmd.OutOrStdout(), store, args[0], hops); err != nil {
			log.Fatalf("Failed to inspect %s: %v", args[0], err)
		}
	},
}

// inspect prints one entity from the stored snapshot. A non-negative hops
// also prints the Mermaid flowchart of its neighborhood.
func inspect(ctx context.Context, w io.Writer, store storage.GraphStore, name string, hops int) error {
	g, err := store.LoadGraph(ctx)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	node, err := store.GetNode(ctx, name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		fmt.Fprintf(w, "❓ %s is not declared in the corpus\n", name)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "🔎 %s (%s) declared in %s:%d\n", node.Name, node.Kind, node.File, node.Line)
		siblings, err := store.FindNodesByFile(ctx, node.File)
		if err == nil && len(siblings) > 1 {
			fmt.Fprintf(w, "  -> %d entities share this file\n", len(siblings))
		}
	}

	fmt.Fprintln(w, "Depends on:")
	for _, dep := range g.GetDependencies(name) {
		marker := ""
		if !g.HasNode(dep) {
			marker = " (undeclared)"
		}
		fmt.Fprintf(w, "  - %s%s\n", dep, marker)
	}
	fmt.Fprintln(w, "Used by:")
	for _, dep := range g.GetDependents(name) {
		fmt.Fprintf(w, "  - %s\n", dep)
	}

	if hops >= 0 {
		rc := retrieval.DefaultConfig()
		rc.MaxHops = hops
		sg := retrieval.Extract(g, []string{name}, rc)
		fmt.Fprintln(w)
		fmt.Fprint(w, report.Mermaid(sg.Graph(g)))
	}
	return nil
}

var impactCmd = &cobra.Command{
	Use:   "impact [corpus]",
	Short: "List entities affected by uncommitted corpus changes",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args)
		base, _ := cmd.Flags().GetString("base")

		changes, err := git.GetChangedFiles(cmd.Context(), base, cfg.Corpus.Root)
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}
		if len(changes) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}
		fmt.Printf("📝 Detected %d changed files.\n", len(changes))
		for _, c := range changes {
			if c.Deleted {
				fmt.Printf("  🗑️  %s was deleted; its callers now point at undeclared names\n", c.Path)
			}
		}

		g, _ := analyzer.New(newSource(cfg), analyzer.WithLogger(newLogger(cfg))).Run()
		r := analysis.NewAnalyzer(g).AnalyzeImpact(changes)

		fmt.Printf("  -> %d entities directly affected\n", len(r.DirectlyAffected))
		for _, n := range r.DirectlyAffected {
			fmt.Printf("     %s (%s) at %s:%d\n", n.Name, n.Kind, n.File, n.Line)
		}
		fmt.Printf("  -> %d entities indirectly affected (callers)\n", len(r.IndirectlyAffected))
		for _, n := range r.IndirectlyAffected {
			fmt.Printf("     %s (%s)\n", n.Name, n.Kind)
		}
		for _, f := range r.UnmatchedFiles {
			fmt.Printf("  ⚠️  %s declares nothing in the graph\n", f)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [corpus]",
	Short: "Re-analyze the whole corpus whenever a script or mission file changes",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args)
		logger := newLogger(cfg)
		src := newSource(cfg)
		a := analyzer.New(src, analyzer.WithLogger(logger))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if _, err := runOnce(ctx, cfg, a, false, true); err != nil {
			log.Fatalf("Failed to write outputs: %v", err)
		}

		fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", src.Root())
		err := watch.Run(ctx, watch.Options{
			Dir:    src.Root(),
			Match:  src.Recognizes,
			Logger: logger,
		}, func() error {
			_, err := runOnce(ctx, cfg, a, false, true)
			return err
		})
		if err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	},
}

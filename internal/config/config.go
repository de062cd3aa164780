package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "scriptgraph.yaml"

type Config struct {
	Corpus struct {
		Root        string   `yaml:"root"`
		ScriptGlobs []string `yaml:"script_globs"`
		DataGlobs   []string `yaml:"data_globs"`
	} `yaml:"corpus"`
	Output struct {
		Dir     string `yaml:"dir"`
		JSON    string `yaml:"json"`
		HTML    string `yaml:"html"`
		Mermaid string `yaml:"mermaid"`
	} `yaml:"output"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func (c *Config) applyDefaults() {
	if c.Corpus.Root == "" {
		c.Corpus.Root = "server/GAMEFOLDER/campaign/campaignScriptsEN"
	}
	if len(c.Corpus.ScriptGlobs) == 0 {
		c.Corpus.ScriptGlobs = []string{"*.txt"}
	}
	if len(c.Corpus.DataGlobs) == 0 {
		c.Corpus.DataGlobs = []string{"*.yaml"}
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.JSON == "" {
		c.Output.JSON = "galaxy_trucker_script_graph.json"
	}
	if c.Output.HTML == "" {
		c.Output.HTML = "galaxy_trucker_script_graph.html"
	}
	if c.Output.Mermaid == "" {
		c.Output.Mermaid = "galaxy_trucker_script_graph.md"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "scriptgraph.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LoadConfig reads path if it exists, then applies environment overrides
// and defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if root := os.Getenv("SCRIPTGRAPH_CORPUS"); root != "" {
		cfg.Corpus.Root = root
	}
	if dir := os.Getenv("SCRIPTGRAPH_OUTPUT"); dir != "" {
		cfg.Output.Dir = dir
	}
	if level := os.Getenv("SCRIPTGRAPH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

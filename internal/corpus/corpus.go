package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

var (
	// ErrMissingCorpus is returned when the corpus directory does not exist.
	ErrMissingCorpus = errors.New("corpus directory not found")
	// ErrUnreadableFile wraps any I/O or decode failure on a single file.
	ErrUnreadableFile = errors.New("unreadable file")
)

// Format tells the extractors how to read a file.
type Format string

const (
	FormatScript Format = "script"
	FormatData   Format = "data"
)

// File is one entry of the corpus listing.
type File struct {
	Name   string // base name, used to read it back from the Source
	Path   string // display path, recorded as the entity origin
	Format Format
}

// Source lists and reads corpus files. The filesystem is one implementation;
// anything that can hand out bytes by name can stand in for it.
type Source interface {
	List() ([]File, error)
	Read(name string) ([]byte, error)
}

// Patterns selects which file names count as scripts and which as data files.
type Patterns struct {
	Script []string
	Data   []string
}

// DefaultPatterns matches the campaign folder layout.
func DefaultPatterns() Patterns {
	return Patterns{
		Script: []string{"*.txt"},
		Data:   []string{"*.yaml"},
	}
}

type classifier struct {
	script []glob.Glob
	data   []glob.Glob
}

func newClassifier(p Patterns) (*classifier, error) {
	script, err := compileGlobs(p.Script)
	if err != nil {
		return nil, err
	}
	data, err := compileGlobs(p.Data)
	if err != nil {
		return nil, err
	}
	return &classifier{script: script, data: data}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

// classify returns the format for name and false when it matches nothing.
// Script patterns win over data patterns.
func (c *classifier) classify(name string) (Format, bool) {
	for _, g := range c.script {
		if g.Match(name) {
			return FormatScript, true
		}
	}
	for _, g := range c.data {
		if g.Match(name) {
			return FormatData, true
		}
	}
	return "", false
}

// DirSource reads a single flat directory. Subdirectories are not descended.
type DirSource struct {
	fsys    fs.FS
	display string
	missing bool
	cls     *classifier
}

// NewDirSource opens root on the local filesystem.
func NewDirSource(root string, p Patterns) (*DirSource, error) {
	cls, err := newClassifier(p)
	if err != nil {
		return nil, err
	}
	s := &DirSource{fsys: os.DirFS(root), display: root, cls: cls}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		s.missing = true
	}
	return s, nil
}

// NewFSSource wraps an arbitrary fs.FS; display prefixes recorded file paths.
func NewFSSource(fsys fs.FS, display string, p Patterns) (*DirSource, error) {
	cls, err := newClassifier(p)
	if err != nil {
		return nil, err
	}
	return &DirSource{fsys: fsys, display: display, cls: cls}, nil
}

// Root returns the display root of the source.
func (s *DirSource) Root() string {
	return s.display
}

// Recognizes reports whether a file name would be listed.
func (s *DirSource) Recognizes(name string) bool {
	_, ok := s.cls.classify(filepath.Base(name))
	return ok
}

// List returns every recognized file sorted by name.
func (s *DirSource) List() ([]File, error) {
	if s.missing {
		return nil, fmt.Errorf("%w: %s", ErrMissingCorpus, s.display)
	}
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCorpus, s.display)
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.display, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, ok := s.cls.classify(e.Name())
		if !ok {
			continue
		}
		files = append(files, File{
			Name:   e.Name(),
			Path:   s.displayPath(e.Name()),
			Format: format,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read returns the content of name. Invalid UTF-8 counts as unreadable.
func (s *DirSource) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, name, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid utf-8", ErrUnreadableFile, name)
	}
	return data, nil
}

func (s *DirSource) displayPath(name string) string {
	if s.display == "" {
		return name
	}
	return filepath.Join(s.display, name)
}

// Split partitions files by format, keeping their order.
func Split(files []File) (scripts, data []File) {
	for _, f := range files {
		switch f.Format {
		case FormatScript:
			scripts = append(scripts, f)
		case FormatData:
			data = append(data, f)
		}
	}
	return scripts, data
}

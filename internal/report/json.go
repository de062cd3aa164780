package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"scriptgraph/internal/graph"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidGraph is returned when a record does not match graph.schema.json.
var ErrInvalidGraph = errors.New("graph record does not match schema")

//go:embed graph.schema.json
var graphSchemaJSON string

const graphSchemaURL = "https://scriptgraph.local/graph.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(graphSchemaURL, strings.NewReader(graphSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(graphSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateRecord checks raw JSON against the graph schema.
func validateRecord(raw []byte) error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile graph schema: %w", err)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode graph: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	return nil
}

// WriteJSON encodes the serialized view of g after checking it against the
// schema.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(g.View()); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	if err := validateRecord(buf.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadJSON decodes a graph previously written by WriteJSON. Records that do
// not match the schema are rejected with ErrInvalidGraph.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	if err := validateRecord(raw); err != nil {
		return nil, err
	}

	var v graph.View
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return graph.FromView(v), nil
}

// SaveJSON writes the graph to path.
func SaveJSON(path string, g *graph.Graph) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, g) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

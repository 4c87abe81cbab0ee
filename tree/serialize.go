package tree

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read decodes a tree from JSON and validates it.
func Read(r io.Reader) (*Tree, error) {
	var t Tree
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	return &t, nil
}

// ReadFile loads a tree from a JSON file; a ".gz" suffix selects gzip.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return Read(r)
}

// Write encodes the tree as JSON.
func (t *Tree) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(t)
}

// WriteFile saves the tree to a JSON file; a ".gz" suffix selects gzip.
func (t *Tree) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tree file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		if err := t.Write(gz); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}

	return t.Write(f)
}

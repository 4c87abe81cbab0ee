// Package export serializes built traversals for offline inspection.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bssrdf/boxtree/internal/stats"
	"github.com/bssrdf/boxtree/pkg/errors"
	"github.com/bssrdf/boxtree/traversal"
)

// Document is the on-disk shape of an exported traversal: the full Info
// plus its derived summary, so consumers don't need to recompute it.
type Document struct {
	Info    *traversal.Info `json:"info"`
	Summary stats.Summary   `json:"summary"`
}

// Writer writes traversal documents as JSON, optionally gzipped.
type Writer struct {
	// Indent specifies the indentation for pretty printing.
	// Empty string means compact output.
	Indent string
}

// NewWriter creates a writer with compact output.
func NewWriter() *Writer {
	return &Writer{}
}

// NewPrettyWriter creates a writer with indented output.
func NewPrettyWriter() *Writer {
	return &Writer{Indent: "  "}
}

// Write writes the traversal as JSON to w.
func (wr *Writer) Write(info *traversal.Info, w io.Writer) error {
	doc := Document{
		Info:    info,
		Summary: stats.Summarize(info),
	}

	encoder := json.NewEncoder(w)
	if wr.Indent != "" {
		encoder.SetIndent("", wr.Indent)
	}
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(errors.CodeExportError, "failed to encode traversal", err)
	}
	return nil
}

// WriteFile writes the traversal to a file; a ".gz" suffix selects gzip.
func (wr *Writer) WriteFile(info *traversal.Info, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.CodeExportError, fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(file)
		if err := wr.Write(info, gz); err != nil {
			gz.Close()
			return err
		}
		if err := gz.Close(); err != nil {
			return errors.Wrap(errors.CodeExportError, "failed to flush gzip stream", err)
		}
		return nil
	}

	return wr.Write(info, file)
}

// ReadFile loads an exported document; a ".gz" suffix selects gzip.
func ReadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeExportError, fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.Wrap(errors.CodeExportError, "failed to open gzip stream", err)
		}
		defer gz.Close()
		r = gz
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.CodeExportError, "failed to decode traversal", err)
	}
	return &doc, nil
}

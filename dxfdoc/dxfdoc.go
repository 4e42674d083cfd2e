// Package dxfdoc reads DXF drawings and exposes their model space as
// neutral entities. It is the input boundary of the pipeline: everything
// past this package works on model.Entity values and never sees the DXF
// parser's types.
//
// Block definitions stay unexpanded. An INSERT maps to an insert entity
// whose Children callback resolves the referenced block on demand, with the
// insertion transform already baked into each child.
package dxfdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rpaloschi/dxf-go/document"

	"github.com/tsawler/cartograph/model"
)

var (
	// ErrInvalidDocument is returned when a stream cannot be parsed as DXF.
	ErrInvalidDocument = errors.New("dxfdoc: cannot parse document")

	// ErrUnknownBlock is returned when an insert references a block the
	// drawing does not define.
	ErrUnknownBlock = errors.New("dxfdoc: block not defined")
)

// Reader holds a parsed DXF drawing.
type Reader struct {
	name string
	doc  *document.DxfDocument
}

// Open reads and parses the DXF file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dxfdoc: opening %s: %w", path, err)
	}
	defer f.Close()
	return FromStream(filepath.Base(path), f)
}

// FromStream parses a DXF drawing from r. The name is carried through to
// output diagnostics and has no effect on parsing.
func FromStream(name string, r io.Reader) (*Reader, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &Reader{name: name, doc: doc}, nil
}

// Name returns the name the reader was opened with.
func (r *Reader) Name() string {
	return r.name
}

// Entities maps the drawing's model space to neutral entities. Entity types
// the parser does not recognize are skipped.
func (r *Reader) Entities() ([]model.Entity, error) {
	out := make([]model.Entity, 0, len(r.doc.Entities.Entities))
	for _, raw := range r.doc.Entities.Entities {
		if e, ok := r.mapEntity(raw); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

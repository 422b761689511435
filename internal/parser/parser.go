// Package parser detects glTF container formats and splits them into a
// document and an optional embedded binary blob.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/roboco-io/gltfimport/internal/gltf"
)

// Format represents a glTF container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatGLTF           // plain JSON document
	FormatGLB            // binary container
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGLTF:
		return "gltf"
	case FormatGLB:
		return "glb"
	default:
		return "unknown"
	}
}

// DetectFormat detects the container format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf":
		return FormatGLTF
	case ".glb", ".vrm":
		return FormatGLB
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 16)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}
	return detectFormat(buf[:n]), nil
}

func detectFormat(data []byte) Format {
	if bytes.HasPrefix(data, []byte(glbMagic)) {
		return FormatGLB
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatGLTF
	}
	return FormatUnknown
}

// Gltf is a parsed container: the document and, for GLB input, the
// contents of the BIN chunk.
type Gltf struct {
	Document *gltf.Document
	Blob     []byte // nil when the container carried no binary chunk
	Format   Format
}

// Parse parses either a GLB container or a plain glTF JSON document.
func Parse(data []byte) (*Gltf, error) {
	format := detectFormat(data)
	switch format {
	case FormatGLB:
		glb, err := ParseGLB(data)
		if err != nil {
			return nil, err
		}
		doc, err := gltf.FromJSON(glb.JSON)
		if err != nil {
			return nil, err
		}
		return &Gltf{Document: doc, Blob: glb.Bin, Format: format}, nil

	case FormatGLTF:
		doc, err := gltf.FromJSON(data)
		if err != nil {
			return nil, err
		}
		return &Gltf{Document: doc, Format: format}, nil

	default:
		return nil, fmt.Errorf("unrecognized glTF container")
	}
}

// FromReader reads all data from r and parses it.
func FromReader(r io.Reader) (*Gltf, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read glTF data: %w", err)
	}
	return Parse(data)
}

package importer

import (
	"context"

	"github.com/roboco-io/gltfimport/internal/gltf"
)

// BufferData is the materialized contents of a buffer. Its length is always
// a multiple of 4 and at least the declared byteLength.
type BufferData []byte

// Blob is the binary chunk of a container. It can be taken exactly once.
type Blob struct {
	data    []byte
	present bool
}

// NewBlob wraps data in a take-once slot. A nil slice yields an empty slot.
func NewBlob(data []byte) *Blob {
	return &Blob{data: data, present: data != nil}
}

// Take moves the contents out of the slot. It reports false when the slot
// is empty, either because no blob was supplied or because it was already
// taken.
func (b *Blob) Take() ([]byte, bool) {
	if b == nil || !b.present {
		return nil, false
	}
	data := b.data
	b.data = nil
	b.present = false
	return data, true
}

// Available reports whether the slot still holds the blob.
func (b *Blob) Available() bool {
	return b != nil && b.present
}

// LoadBuffer materializes a single buffer declaration. A blob-sourced buffer
// takes the blob out of its slot; a URI-sourced buffer is resolved through
// the importer's fetcher. The result is zero-padded to a multiple of 4 and
// checked against the declared length.
func (im *Importer) LoadBuffer(ctx context.Context, decl gltf.BufferDecl, blob *Blob, base string) (BufferData, error) {
	var (
		data   []byte
		source string
	)
	if decl.Source.Bin {
		taken, ok := blob.Take()
		if !ok {
			return nil, ErrMissingBlob
		}
		data, source = taken, "bin"
	} else {
		s, err := ParseScheme(decl.Source.URI)
		if err != nil {
			return nil, err
		}
		data, err = s.read(ctx, base, im.fetcher)
		if err != nil {
			return nil, err
		}
		source = s.Kind.String()
	}

	data = padTo4(data)
	if len(data) < decl.Length {
		return nil, &BufferLengthError{
			Index:    decl.Index,
			Expected: decl.Length,
			Actual:   len(data),
		}
	}

	im.recordBytes("buffer", source, len(data))
	im.logger.Debug("buffer materialized",
		"index", decl.Index,
		"source", source,
		"declared", decl.Length,
		"bytes", len(data))
	return BufferData(data), nil
}

// ImportBuffers materializes every buffer of doc in document order. blob is
// the container's binary chunk (nil when there is none); at most one buffer
// may consume it.
func (im *Importer) ImportBuffers(ctx context.Context, doc *gltf.Document, blob []byte, base string) ([]BufferData, error) {
	slot := NewBlob(blob)
	decls := doc.BufferDecls()
	buffers := make([]BufferData, 0, len(decls))
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := im.LoadBuffer(ctx, decl, slot, base)
		if err != nil {
			return nil, &ResourceError{Resource: "buffer", Index: decl.Index, Err: err}
		}
		buffers = append(buffers, data)
	}
	if slot.Available() {
		im.logger.Debug("embedded blob not referenced by any buffer", "bytes", len(blob))
	}
	return buffers, nil
}

// padTo4 returns data extended with zero bytes to a multiple of 4.
// The input is never written to.
func padTo4(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}
	padded := make([]byte, (len(data)+3)&^3)
	copy(padded, data)
	return padded
}

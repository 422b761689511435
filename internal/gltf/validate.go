package gltf

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("gltf: invalid document")

// Validate checks the structural rules the importer relies on:
// buffer views stay inside their buffer and every image has exactly one
// source. Semantic checks (accessors, meshes) are out of scope.
func (d *Document) Validate() error {
	if d.Asset.Version == "" {
		return fmt.Errorf("%w: asset.version is required", ErrInvalidDocument)
	}

	for i, b := range d.Buffers {
		if b.ByteLength < 1 {
			return fmt.Errorf("%w: buffers[%d].byteLength must be at least 1, got %d", ErrInvalidDocument, i, b.ByteLength)
		}
	}

	for i, v := range d.BufferViews {
		if v.Buffer < 0 || v.Buffer >= len(d.Buffers) {
			return fmt.Errorf("%w: bufferViews[%d].buffer %d out of range", ErrInvalidDocument, i, v.Buffer)
		}
		if v.ByteOffset < 0 || v.ByteLength < 1 {
			return fmt.Errorf("%w: bufferViews[%d] has invalid range (offset %d, length %d)", ErrInvalidDocument, i, v.ByteOffset, v.ByteLength)
		}
		if blen := d.Buffers[v.Buffer].ByteLength; v.ByteOffset > blen || v.ByteLength > blen-v.ByteOffset {
			return fmt.Errorf("%w: bufferViews[%d] (offset %d, length %d) runs past buffer %d length %d",
				ErrInvalidDocument, i, v.ByteOffset, v.ByteLength, v.Buffer, blen)
		}
	}

	for i, img := range d.Images {
		hasURI := img.URI != ""
		hasView := img.BufferView != nil
		switch {
		case hasURI && hasView:
			return fmt.Errorf("%w: images[%d] declares both uri and bufferView", ErrInvalidDocument, i)
		case !hasURI && !hasView:
			return fmt.Errorf("%w: images[%d] declares neither uri nor bufferView", ErrInvalidDocument, i)
		case hasView:
			if *img.BufferView < 0 || *img.BufferView >= len(d.BufferViews) {
				return fmt.Errorf("%w: images[%d].bufferView %d out of range", ErrInvalidDocument, i, *img.BufferView)
			}
			if img.MimeType == "" {
				return fmt.Errorf("%w: images[%d] uses a bufferView without mimeType", ErrInvalidDocument, i)
			}
		}
	}

	return nil
}

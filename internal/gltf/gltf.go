// Package gltf defines the glTF 2.0 document model consumed by the importer.
//
// Only the members needed to locate external resources are modeled as Go
// types (asset, buffers, bufferViews, images). Every other top-level member is
// kept as raw JSON so a document can be written back out unchanged.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package gltf

import (
	"encoding/json"
	"fmt"
)

// Document represents the root of a glTF JSON document.
type Document struct {
	Asset       Asset        `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Images      []Image      `json:"images,omitempty"`

	// Extra holds the top-level members that are not modeled above
	// (meshes, nodes, accessors, ...), keyed by member name.
	Extra map[string]json.RawMessage `json:"-"`
}

// Asset contains metadata about the glTF asset.
type Asset struct {
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
}

// Buffer is a raw binary data container.
// A buffer without a URI refers to the binary chunk of a GLB container.
type Buffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
}

// BufferView is a contiguous byte range of a buffer.
type BufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
	ByteStride *int   `json:"byteStride,omitempty"`
	Target     *int   `json:"target,omitempty"`
}

// Image is a texture source, referenced either by URI or by buffer view.
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}

// knownMembers lists the top-level members decoded into typed fields.
var knownMembers = []string{"asset", "buffers", "bufferViews", "images"}

// document is an alias without methods, used to avoid recursion in the
// custom (un)marshalers.
type document Document

// UnmarshalJSON decodes the typed members and keeps the rest in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var typed document
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for _, name := range knownMembers {
		delete(members, name)
	}

	*d = Document(typed)
	if len(members) > 0 {
		d.Extra = members
	}
	return nil
}

// MarshalJSON encodes the typed members merged with Extra.
func (d Document) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(document(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return typed, nil
	}

	members := make(map[string]json.RawMessage, len(d.Extra)+len(knownMembers))
	if err := json.Unmarshal(typed, &members); err != nil {
		return nil, err
	}
	for name, raw := range d.Extra {
		if _, ok := members[name]; ok {
			continue
		}
		members[name] = raw
	}
	return json.Marshal(members)
}

// FromJSON parses and validates a glTF JSON document.
func FromJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalIndent returns the document as indented JSON.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

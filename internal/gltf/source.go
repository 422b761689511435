package gltf

// BufferSource tells where the bytes of a buffer come from.
type BufferSource struct {
	URI string // set when Bin is false
	Bin bool   // the binary chunk of the container
}

// BufferDecl is a buffer declaration as seen by the importer.
type BufferDecl struct {
	Index  int
	Name   string
	Length int // declared byteLength
	Source BufferSource
}

// ViewRef locates a byte range inside a buffer.
type ViewRef struct {
	Buffer int
	Offset int
	Length int
}

// ImageSource tells where the encoded bytes of an image come from.
// Exactly one of URI or View is set.
type ImageSource struct {
	URI      string
	MimeType string // optional for URI sources, required for views
	View     *ViewRef
}

// IsView reports whether the image is stored in a buffer view.
func (s ImageSource) IsView() bool {
	return s.View != nil
}

// ImageDecl is an image declaration as seen by the importer.
type ImageDecl struct {
	Index  int
	Name   string
	Source ImageSource
}

// BufferDecls returns the buffer declarations in document order.
func (d *Document) BufferDecls() []BufferDecl {
	decls := make([]BufferDecl, 0, len(d.Buffers))
	for i, b := range d.Buffers {
		decl := BufferDecl{
			Index:  i,
			Name:   b.Name,
			Length: b.ByteLength,
		}
		if b.URI == "" {
			decl.Source.Bin = true
		} else {
			decl.Source.URI = b.URI
		}
		decls = append(decls, decl)
	}
	return decls
}

// ImageDecls returns the image declarations in document order.
// Buffer view references are resolved to buffer ranges; the document is
// expected to have passed Validate.
func (d *Document) ImageDecls() []ImageDecl {
	decls := make([]ImageDecl, 0, len(d.Images))
	for i, img := range d.Images {
		decl := ImageDecl{
			Index: i,
			Name:  img.Name,
			Source: ImageSource{
				URI:      img.URI,
				MimeType: img.MimeType,
			},
		}
		if img.BufferView != nil && *img.BufferView >= 0 && *img.BufferView < len(d.BufferViews) {
			view := d.BufferViews[*img.BufferView]
			decl.Source.URI = ""
			decl.Source.View = &ViewRef{
				Buffer: view.Buffer,
				Offset: view.ByteOffset,
				Length: view.ByteLength,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

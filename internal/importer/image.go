package importer

import (
	"context"
	"fmt"

	"github.com/roboco-io/gltfimport/internal/gltf"
	"github.com/roboco-io/gltfimport/internal/texture"
)

// LoadImage materializes a single image declaration. View-backed images are
// sliced out of buffers, which must already hold every buffer of the
// document.
func (im *Importer) LoadImage(ctx context.Context, decl gltf.ImageDecl, buffers []BufferData, base string) (*texture.Data, error) {
	var (
		encoded []byte
		enc     texture.Encoding
		source  string
		err     error
	)

	if view := decl.Source.View; view != nil {
		encoded, err = sliceView(buffers, *view)
		if err != nil {
			return nil, err
		}
		source = "view"
		enc, err = resolveEncoding(
			byMediaType(decl.Source.MimeType),
			bySniff(im.sniffer, encoded),
		)
	} else {
		encoded, enc, source, err = im.readImageURI(ctx, decl.Source, base)
	}
	if err != nil {
		return nil, err
	}

	img, err := im.decoder.Decode(encoded, enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}

	im.recordBytes("image", source, len(encoded))
	im.logger.Debug("image materialized",
		"index", decl.Index,
		"source", source,
		"encoding", enc.String(),
		"width", img.Width,
		"height", img.Height)
	return img, nil
}

// readImageURI fetches the encoded bytes of a URI-backed image and picks
// its encoding.
func (im *Importer) readImageURI(ctx context.Context, src gltf.ImageSource, base string) ([]byte, texture.Encoding, string, error) {
	s, err := ParseScheme(src.URI)
	if err != nil {
		return nil, texture.EncodingUnknown, "", err
	}
	source := s.Kind.String()

	switch {
	case s.Kind == SchemeUnsupported:
		return nil, texture.EncodingUnknown, source, ErrUnsupportedScheme

	case s.Kind == SchemeData && s.HasMediaType:
		// The data URI's own media type wins over the declared one.
		encoded, err := decodeBase64(s.Payload)
		if err != nil {
			return nil, texture.EncodingUnknown, source, err
		}
		enc, err := resolveEncoding(
			byMediaType(s.MediaType),
			bySniff(im.sniffer, encoded),
		)
		return encoded, enc, source, err

	default:
		encoded, err := s.read(ctx, base, im.fetcher)
		if err != nil {
			return nil, texture.EncodingUnknown, source, err
		}
		// An unrecognized declared mimeType falls through to the extension
		// before sniffing.
		enc, err := resolveEncoding(
			byMediaType(src.MimeType),
			byExtension(src.URI),
			bySniff(im.sniffer, encoded),
		)
		return encoded, enc, source, err
	}
}

// sliceView returns the bytes of view, bounds-checked against the
// materialized buffers.
func sliceView(buffers []BufferData, view gltf.ViewRef) ([]byte, error) {
	if view.Buffer < 0 || view.Buffer >= len(buffers) {
		return nil, &ViewRangeError{Buffer: view.Buffer, Offset: view.Offset, Length: view.Length, BufferLen: -1}
	}
	buf := buffers[view.Buffer]
	// Compare against the remaining length so a huge offset cannot overflow.
	if view.Offset < 0 || view.Length < 0 || view.Offset > len(buf) || view.Length > len(buf)-view.Offset {
		return nil, &ViewRangeError{Buffer: view.Buffer, Offset: view.Offset, Length: view.Length, BufferLen: len(buf)}
	}
	return buf[view.Offset : view.Offset+view.Length], nil
}

// ImportImages materializes every image of doc in document order.
func (im *Importer) ImportImages(ctx context.Context, doc *gltf.Document, buffers []BufferData, base string) ([]*texture.Data, error) {
	decls := doc.ImageDecls()
	images := make([]*texture.Data, 0, len(decls))
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := im.LoadImage(ctx, decl, buffers, base)
		if err != nil {
			return nil, &ResourceError{Resource: "image", Index: decl.Index, Err: err}
		}
		images = append(images, img)
	}
	return images, nil
}

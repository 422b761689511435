package importer

import (
	"strings"

	"github.com/roboco-io/gltfimport/internal/texture"
)

// formatLookup is one step of the image format chain.
type formatLookup func() (texture.Encoding, bool)

// resolveEncoding runs lookups in order and returns the first hit.
func resolveEncoding(lookups ...formatLookup) (texture.Encoding, error) {
	for _, lookup := range lookups {
		if enc, ok := lookup(); ok {
			return enc, nil
		}
	}
	return texture.EncodingUnknown, ErrUnsupportedImageEncoding
}

// byMediaType recognizes exactly "image/png" and "image/jpeg".
func byMediaType(mediaType string) formatLookup {
	return func() (texture.Encoding, bool) {
		switch mediaType {
		case "image/png":
			return texture.EncodingPNG, true
		case "image/jpeg":
			return texture.EncodingJPEG, true
		default:
			return texture.EncodingUnknown, false
		}
	}
}

// byExtension looks at the text after the last '.' of uri.
func byExtension(uri string) formatLookup {
	return func() (texture.Encoding, bool) {
		i := strings.LastIndexByte(uri, '.')
		if i < 0 {
			return texture.EncodingUnknown, false
		}
		switch uri[i+1:] {
		case "png":
			return texture.EncodingPNG, true
		case "jpg", "jpeg":
			return texture.EncodingJPEG, true
		default:
			return texture.EncodingUnknown, false
		}
	}
}

// bySniff inspects the payload. A nil sniffer never matches.
func bySniff(s texture.Sniffer, data []byte) formatLookup {
	return func() (texture.Encoding, bool) {
		if s == nil {
			return texture.EncodingUnknown, false
		}
		return s.Sniff(data)
	}
}

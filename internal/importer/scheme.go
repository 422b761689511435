package importer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SchemeKind classifies a resource URI.
type SchemeKind int

const (
	SchemeUnsupported SchemeKind = iota
	SchemeData                   // data:[<media type>];base64,<data>
	SchemeFile                   // file:[//]<path>
	SchemeRelative               // ../foo, textures/a.png
)

// String returns the string representation of the scheme kind.
func (k SchemeKind) String() string {
	switch k {
	case SchemeData:
		return "data"
	case SchemeFile:
		return "file"
	case SchemeRelative:
		return "relative"
	default:
		return "unsupported"
	}
}

// Scheme is a classified URI. It borrows from the string it was parsed from
// and is never stored.
type Scheme struct {
	Kind SchemeKind

	// Data scheme.
	MediaType    string
	HasMediaType bool
	Payload      string // base64 text

	// File and relative schemes. Relative paths are percent-decoded.
	Path string
}

const (
	dataPrefix      = "data:"
	base64Separator = ";base64,"
	fileAuthPrefix  = "file://"
	filePrefix      = "file:"
)

// ParseScheme classifies uri. It performs no I/O.
//
// The file scheme has no notion of authority: "file://host/x" yields the
// path "host/x".
func ParseScheme(uri string) (Scheme, error) {
	if !strings.Contains(uri, ":") {
		path, err := url.PathUnescape(uri)
		if err != nil {
			return Scheme{}, fmt.Errorf("%w: %q: %w", ErrInvalidURI, uri, err)
		}
		return Scheme{Kind: SchemeRelative, Path: path}, nil
	}

	if rest, ok := strings.CutPrefix(uri, dataPrefix); ok {
		if mediaType, payload, found := strings.Cut(rest, base64Separator); found {
			return Scheme{Kind: SchemeData, MediaType: mediaType, HasMediaType: true, Payload: payload}, nil
		}
		return Scheme{Kind: SchemeData, Payload: rest}, nil
	}

	if rest, ok := strings.CutPrefix(uri, fileAuthPrefix); ok {
		return Scheme{Kind: SchemeFile, Path: rest}, nil
	}
	if rest, ok := strings.CutPrefix(uri, filePrefix); ok {
		return Scheme{Kind: SchemeFile, Path: rest}, nil
	}

	return Scheme{Kind: SchemeUnsupported}, nil
}

// ReadURI resolves uri to bytes. Relative paths are resolved against base;
// an empty base means the caller has no filesystem context, and relative
// references fail with ErrExternalReference without calling f.
func ReadURI(ctx context.Context, base, uri string, f Fetcher) ([]byte, error) {
	s, err := ParseScheme(uri)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, base, f)
}

func (s Scheme) read(ctx context.Context, base string, f Fetcher) ([]byte, error) {
	switch s.Kind {
	case SchemeData:
		return decodeBase64(s.Payload)
	case SchemeFile:
		// An explicit file reference is absolute; base does not apply.
		return fetch(ctx, f, "", s.Path)
	case SchemeRelative:
		if base == "" {
			return nil, ErrExternalReference
		}
		return fetch(ctx, f, base, s.Path)
	default:
		return nil, ErrUnsupportedScheme
	}
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBase64, err)
	}
	return data, nil
}

// fetch calls f and classifies failures that are not already typed as I/O.
func fetch(ctx context.Context, f Fetcher, base, path string) ([]byte, error) {
	data, err := f.Fetch(ctx, base, path)
	if err != nil {
		if errors.Is(err, ErrIO) || errors.Is(err, ErrExternalReference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
	return data, nil
}

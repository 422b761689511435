// Package importer materializes the external resources of a glTF document:
// buffer payloads and decoded images.
//
// Resources are addressed by data URIs, file URIs, relative paths, or the
// binary chunk of a GLB container. All I/O goes through a Fetcher, so the
// importer itself touches the filesystem only to read the document named
// by Import.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roboco-io/gltfimport/internal/gltf"
	"github.com/roboco-io/gltfimport/internal/metrics"
	"github.com/roboco-io/gltfimport/internal/parser"
	"github.com/roboco-io/gltfimport/internal/texture"
)

// Options configures an Importer.
type Options struct {
	Fetcher Fetcher         // resolves file and relative references
	Decoder texture.Decoder // turns encoded images into pixels
	Sniffer texture.Sniffer // content sniffing; nil disables it
	Logger  *slog.Logger
}

// DefaultOptions returns options that read from the filesystem, decode with
// the standard library, and do not sniff image content.
func DefaultOptions() Options {
	return Options{
		Fetcher: FilesystemFetcher{},
		Decoder: texture.StdDecoder{},
	}
}

// Importer runs the buffer-then-image pipeline. It holds no per-import
// state and may be reused.
type Importer struct {
	fetcher Fetcher
	decoder texture.Decoder
	sniffer texture.Sniffer
	logger  *slog.Logger
}

// New creates an importer. Nil Fetcher, Decoder and Logger fields fall back
// to the defaults; a nil Sniffer stays disabled.
func New(opts Options) *Importer {
	im := &Importer{
		fetcher: opts.Fetcher,
		decoder: opts.Decoder,
		sniffer: opts.Sniffer,
		logger:  opts.Logger,
	}
	if im.fetcher == nil {
		im.fetcher = FilesystemFetcher{}
	}
	if im.decoder == nil {
		im.decoder = texture.StdDecoder{}
	}
	if im.logger == nil {
		im.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return im
}

// Result is the outcome of an import. Buffers and Images are index-aligned
// with the document's buffers and images.
type Result struct {
	Document *gltf.Document
	Buffers  []BufferData
	Images   []*texture.Data
}

// Import reads the glTF or GLB file at path and materializes its resources.
// Relative references resolve against the file's directory.
func (im *Importer) Import(ctx context.Context, path string) (*Result, error) {
	return im.observe("path", func() (*Result, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		g, err := parser.Parse(data)
		if err != nil {
			return nil, err
		}
		return im.run(ctx, g, filepath.Dir(path))
	})
}

// ImportSlice parses data as glTF or GLB and materializes its resources.
// base is the directory relative references resolve against; pass "" for
// self-contained data, in which case any relative reference fails with
// ErrExternalReference.
func (im *Importer) ImportSlice(ctx context.Context, data []byte, base string) (*Result, error) {
	return im.observe("slice", func() (*Result, error) {
		g, err := parser.Parse(data)
		if err != nil {
			return nil, err
		}
		return im.run(ctx, g, base)
	})
}

// ImportGltf materializes the resources of an already parsed container.
func (im *Importer) ImportGltf(ctx context.Context, g *parser.Gltf, base string) (*Result, error) {
	return im.observe("gltf", func() (*Result, error) {
		return im.run(ctx, g, base)
	})
}

// run materializes every buffer, then every image. Images may slice
// buffers, so the order is fixed.
func (im *Importer) run(ctx context.Context, g *parser.Gltf, base string) (*Result, error) {
	im.logger.Debug("import started",
		"format", g.Format.String(),
		"buffers", len(g.Document.Buffers),
		"images", len(g.Document.Images),
		"blob", len(g.Blob),
		"base", base)

	buffers, err := im.ImportBuffers(ctx, g.Document, g.Blob, base)
	if err != nil {
		return nil, err
	}
	images, err := im.ImportImages(ctx, g.Document, buffers, base)
	if err != nil {
		return nil, err
	}

	return &Result{
		Document: g.Document,
		Buffers:  buffers,
		Images:   images,
	}, nil
}

func (im *Importer) observe(entry string, fn func() (*Result, error)) (*Result, error) {
	start := time.Now()
	res, err := fn()
	metrics.ImportDuration.WithLabelValues(entry).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(entry, "error").Inc()
		metrics.ImportErrors.WithLabelValues(Kind(err)).Inc()
		im.logger.Debug("import failed", "entry", entry, "kind", Kind(err), "error", err)
		return nil, err
	}
	metrics.ImportsTotal.WithLabelValues(entry, "ok").Inc()
	return res, nil
}

func (im *Importer) recordBytes(resource, source string, n int) {
	metrics.ResourceBytes.WithLabelValues(resource, source).Add(float64(n))
}

// Import reads the file at path with the default options.
func Import(ctx context.Context, path string) (*Result, error) {
	return New(DefaultOptions()).Import(ctx, path)
}

// ImportSlice imports self-contained data: no base directory and a fetcher
// that refuses every request.
func ImportSlice(ctx context.Context, data []byte) (*Result, error) {
	opts := DefaultOptions()
	opts.Fetcher = EmptyFetcher{}
	return New(opts).ImportSlice(ctx, data, "")
}

package importer

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"
)

// pngBytes returns an opaque w x h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// glbBytes assembles a GLB container with an optional BIN chunk.
func glbBytes(t *testing.T, jsonChunk string, bin []byte) []byte {
	t.Helper()
	var body bytes.Buffer
	writeChunk := func(typ string, data []byte, pad byte) {
		for len(data)%4 != 0 {
			data = append(data, pad)
		}
		binary.Write(&body, binary.LittleEndian, uint32(len(data)))
		body.WriteString(typ)
		body.Write(data)
	}
	writeChunk("JSON", []byte(jsonChunk), ' ')
	if bin != nil {
		writeChunk("BIN\x00", append([]byte(nil), bin...), 0)
	}

	var out bytes.Buffer
	out.WriteString("glTF")
	binary.Write(&out, binary.LittleEndian, uint32(2))
	binary.Write(&out, binary.LittleEndian, uint32(12+body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

type fetchCall struct {
	base string
	path string
}

// recordingFetcher records every call and serves from files.
type recordingFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	files MapFetcher
}

func (f *recordingFetcher) Fetch(ctx context.Context, base, path string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{base: base, path: path})
	f.mu.Unlock()
	return f.files.Fetch(ctx, base, path)
}

// forbiddenFetcher fails the test when called.
func forbiddenFetcher(t *testing.T) Fetcher {
	return FetcherFunc(func(_ context.Context, base, path string) ([]byte, error) {
		t.Errorf("fetcher must not be called (base=%q, path=%q)", base, path)
		return nil, ErrExternalReference
	})
}

func newTestImporter(f Fetcher) *Importer {
	opts := DefaultOptions()
	opts.Fetcher = f
	return New(opts)
}

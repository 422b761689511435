package importer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/roboco-io/gltfimport/internal/gltf"
	"github.com/roboco-io/gltfimport/internal/metrics"
	"github.com/roboco-io/gltfimport/internal/texture"
)

// embeddedPNGGLB returns a GLB whose only image lives in the binary chunk.
func embeddedPNGGLB(t *testing.T, w, h int) []byte {
	t.Helper()
	img := pngBytes(t, w, h)
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": %d}],
		"bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
		"images": [{"bufferView": 0, "mimeType": "image/png"}],
		"nodes": [{"name": "root"}]
	}`, len(img), len(img))
	return glbBytes(t, doc, img)
}

func TestImportSlice_EmbeddedGLB(t *testing.T) {
	res, err := ImportSlice(context.Background(), embeddedPNGGLB(t, 3, 2))
	if err != nil {
		t.Fatalf("ImportSlice failed: %v", err)
	}

	if len(res.Buffers) != 1 {
		t.Fatalf("expected 1 buffer, got %d", len(res.Buffers))
	}
	if len(res.Buffers[0])%4 != 0 {
		t.Errorf("buffer length %d is not a multiple of 4", len(res.Buffers[0]))
	}
	if len(res.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(res.Images))
	}
	if res.Images[0].Width != 3 || res.Images[0].Height != 2 {
		t.Errorf("expected 3x2, got %dx%d", res.Images[0].Width, res.Images[0].Height)
	}
	if _, ok := res.Document.Extra["nodes"]; !ok {
		t.Error("expected unmodeled members to survive the import")
	}
}

func TestImportSlice_EmbeddedDataURIs(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	pngB64 := base64.StdEncoding.EncodeToString(pngBytes(t, 1, 1))
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"buffers": [{"uri": "data:application/gltf-buffer;base64,%s", "byteLength": 5}],
		"images": [{"uri": "data:image/png;base64,%s"}]
	}`, base64.StdEncoding.EncodeToString(payload), pngB64)

	res, err := ImportSlice(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("ImportSlice failed: %v", err)
	}
	if !bytes.Equal(res.Buffers[0], []byte{1, 2, 3, 4, 5, 0, 0, 0}) {
		t.Errorf("unexpected buffer: %v", res.Buffers[0])
	}
	if res.Images[0].Width != 1 {
		t.Errorf("unexpected image width: %d", res.Images[0].Width)
	}
}

func TestImportSlice_ExternalReference(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"buffers": [{"uri": "mesh.bin", "byteLength": 4}]
	}`

	res, err := ImportSlice(context.Background(), []byte(doc))
	if res != nil {
		t.Error("expected no result on failure")
	}
	if !errors.Is(err, ErrExternalReference) {
		t.Errorf("expected ErrExternalReference, got %v", err)
	}
	if got := Kind(err); got != "external_reference" {
		t.Errorf("Kind() = %q, want external_reference", got)
	}
}

func TestImportSlice_ViewOffsetOverflow(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"buffers": [{"uri": "data:;base64,AAAAAA==", "byteLength": 4}],
		"bufferViews": [{"buffer": 0, "byteOffset": 9223372036854775800, "byteLength": 100}],
		"images": [{"bufferView": 0, "mimeType": "image/png"}]
	}`

	res, err := ImportSlice(context.Background(), []byte(doc))
	if res != nil {
		t.Error("expected no result on failure")
	}
	if !errors.Is(err, gltf.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestImport_FromDisk(t *testing.T) {
	dir := t.TempDir()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(os.MkdirAll(filepath.Join(dir, "textures"), 0755))
	must(os.WriteFile(filepath.Join(dir, "mesh.bin"), []byte{1, 2, 3, 4, 5, 6, 7, 8}, 0644))
	must(os.WriteFile(filepath.Join(dir, "textures", "wood grain.jpg"), jpegBytes(t, 8, 4), 0644))

	doc := `{
		"asset": {"version": "2.0", "generator": "test"},
		"buffers": [{"uri": "mesh.bin", "byteLength": 8}],
		"images": [{"uri": "textures/wood%20grain.jpg"}]
	}`
	path := filepath.Join(dir, "scene.gltf")
	must(os.WriteFile(path, []byte(doc), 0644))

	res, err := Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !bytes.Equal(res.Buffers[0], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("unexpected buffer: %v", res.Buffers[0])
	}
	img := res.Images[0]
	if img.Width != 8 || img.Height != 4 {
		t.Errorf("expected 8x4, got %dx%d", img.Width, img.Height)
	}
	if img.Format != texture.R8G8B8 && img.Format != texture.R8 {
		t.Errorf("unexpected pixel format for jpeg: %s", img.Format)
	}
	if res.Document.Asset.Generator != "test" {
		t.Errorf("unexpected generator: %q", res.Document.Asset.Generator)
	}
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
		kind    string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.gltf"),
			wantErr: ErrIO,
			kind:    "io",
		},
		{
			name:    "missing buffer file",
			path:    write("a.gltf", `{"asset":{"version":"2.0"},"buffers":[{"uri":"missing.bin","byteLength":4}]}`),
			wantErr: ErrIO,
			kind:    "io",
		},
		{
			name:    "invalid document",
			path:    write("b.gltf", `{"asset":{"version":"2.0"},"buffers":[{"uri":"a.bin","byteLength":0}]}`),
			wantErr: gltf.ErrInvalidDocument,
			kind:    "invalid_document",
		},
		{
			name:    "short buffer",
			path:    write("c.gltf", `{"asset":{"version":"2.0"},"buffers":[{"uri":"data:;base64,AAAA","byteLength":16}]}`),
			wantErr: ErrBufferLength,
			kind:    "buffer_length",
		},
		{
			name:    "http buffer",
			path:    write("d.gltf", `{"asset":{"version":"2.0"},"buffers":[{"uri":"http://example.com/a.bin","byteLength":4}]}`),
			wantErr: ErrUnsupportedScheme,
			kind:    "unsupported_scheme",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Import(context.Background(), tc.path)
			if res != nil {
				t.Error("expected no result on failure")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if got := Kind(err); got != tc.kind {
				t.Errorf("Kind() = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestImporter_CustomFetcher(t *testing.T) {
	f := &recordingFetcher{files: MapFetcher{
		"assets/mesh.bin": {1, 2, 3, 4},
		"assets/tex.png":  pngBytes(t, 2, 2),
	}}
	im := newTestImporter(f)
	doc := `{
		"asset": {"version": "2.0"},
		"buffers": [{"uri": "mesh.bin", "byteLength": 4}],
		"images": [{"uri": "tex.png"}]
	}`

	res, err := im.ImportSlice(context.Background(), []byte(doc), "assets")
	if err != nil {
		t.Fatalf("ImportSlice failed: %v", err)
	}
	if len(res.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(res.Images))
	}

	want := []fetchCall{{"assets", "mesh.bin"}, {"assets", "tex.png"}}
	if len(f.calls) != len(want) {
		t.Fatalf("expected %d fetch calls, got %d", len(want), len(f.calls))
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, f.calls[i], want[i])
		}
	}
}

func TestImporter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := newTestImporter(forbiddenFetcher(t))
	_, err := im.ImportSlice(ctx, embeddedPNGGLB(t, 1, 1), "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestImporter_RecordsMetrics(t *testing.T) {
	ok := metrics.ImportsTotal.WithLabelValues("slice", "ok")
	failed := metrics.ImportErrors.WithLabelValues("external_reference")
	okBefore := counterValue(t, ok)
	failedBefore := counterValue(t, failed)

	if _, err := ImportSlice(context.Background(), embeddedPNGGLB(t, 1, 1)); err != nil {
		t.Fatalf("ImportSlice failed: %v", err)
	}
	doc := `{"asset":{"version":"2.0"},"buffers":[{"uri":"x.bin","byteLength":1}]}`
	if _, err := ImportSlice(context.Background(), []byte(doc)); err == nil {
		t.Fatal("expected an error")
	}

	if got := counterValue(t, ok) - okBefore; got != 1 {
		t.Errorf("ok imports increased by %v, want 1", got)
	}
	if got := counterValue(t, failed) - failedBefore; got != 1 {
		t.Errorf("external_reference errors increased by %v, want 1", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&BufferLengthError{Index: 0, Expected: 8, Actual: 4}, "buffer_length"},
		{&ViewRangeError{Buffer: 1, BufferLen: -1}, "view_out_of_range"},
		{&ResourceError{Resource: "image", Err: ErrImageDecode}, "image_decode"},
		{fmt.Errorf("%w: boom", ErrBase64), "base64"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range tests {
		if got := Kind(tc.err); got != tc.expected {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.expected)
		}
	}
}

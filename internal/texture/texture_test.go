package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestEncoding_String(t *testing.T) {
	tests := []struct {
		enc       Encoding
		name      string
		mediaType string
	}{
		{EncodingPNG, "png", "image/png"},
		{EncodingJPEG, "jpeg", "image/jpeg"},
		{EncodingUnknown, "unknown", ""},
	}

	for _, tc := range tests {
		if got := tc.enc.String(); got != tc.name {
			t.Errorf("Encoding(%d).String() = %q, want %q", int(tc.enc), got, tc.name)
		}
		if got := tc.enc.MediaType(); got != tc.mediaType {
			t.Errorf("Encoding(%d).MediaType() = %q, want %q", int(tc.enc), got, tc.mediaType)
		}
	}
}

func TestMagicSniffer(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	tests := []struct {
		name   string
		data   []byte
		want   Encoding
		wantOK bool
	}{
		{"png", encodePNG(t, img), EncodingPNG, true},
		{"jpeg", encodeJPEG(t, img), EncodingJPEG, true},
		{"gif", []byte("GIF89a"), EncodingUnknown, false},
		{"empty", nil, EncodingUnknown, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MagicSniffer{}.Sniff(tc.data)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("Sniff() = (%v, %v), want (%v, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestStdDecoder_PNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	src.Set(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	data, err := StdDecoder{}.Decode(encodePNG(t, src), EncodingPNG)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if data.Width != 3 || data.Height != 2 {
		t.Errorf("expected 3x2, got %dx%d", data.Width, data.Height)
	}
	if data.Format != R8G8B8A8 {
		t.Errorf("expected R8G8B8A8, got %s", data.Format)
	}
	if len(data.Pixels) != 3*2*4 {
		t.Fatalf("expected %d bytes, got %d", 3*2*4, len(data.Pixels))
	}
	if !bytes.Equal(data.Pixels[0:4], []byte{10, 20, 30, 40}) {
		t.Errorf("unexpected first pixel: %v", data.Pixels[0:4])
	}
	if !bytes.Equal(data.Pixels[20:24], []byte{200, 100, 50, 255}) {
		t.Errorf("unexpected last pixel: %v", data.Pixels[20:24])
	}
}

func TestStdDecoder_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 0, color.Gray{Y: 77})

	data, err := StdDecoder{}.Decode(encodePNG(t, src), EncodingPNG)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if data.Format != R8 {
		t.Errorf("expected R8, got %s", data.Format)
	}
	if data.Pixels[1] != 77 {
		t.Errorf("expected 77, got %d", data.Pixels[1])
	}
}

func TestStdDecoder_Gray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 0x1234})

	data, err := StdDecoder{}.Decode(encodePNG(t, src), EncodingPNG)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if data.Format != R16 {
		t.Fatalf("expected R16, got %s", data.Format)
	}
	if data.Pixels[0] != 0x34 || data.Pixels[1] != 0x12 {
		t.Errorf("expected little-endian samples, got %x", data.Pixels[0:2])
	}
}

func TestStdDecoder_JPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	data, err := StdDecoder{}.Decode(encodeJPEG(t, src), EncodingJPEG)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if data.Format != R8G8B8 {
		t.Errorf("expected R8G8B8, got %s", data.Format)
	}
	if len(data.Pixels) != 8*8*3 {
		t.Errorf("expected %d bytes, got %d", 8*8*3, len(data.Pixels))
	}
}

func TestStdDecoder_Errors(t *testing.T) {
	encoded := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 1, 1)))

	if _, err := (StdDecoder{}).Decode(encoded, EncodingJPEG); err == nil {
		t.Error("expected error decoding png as jpeg")
	}
	if _, err := (StdDecoder{}).Decode([]byte("garbage"), EncodingPNG); err == nil {
		t.Error("expected error for garbage input")
	}
	if _, err := (StdDecoder{}).Decode(encoded, EncodingUnknown); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestData_Scale(t *testing.T) {
	src := FromImage(image.NewNRGBA(image.Rect(0, 0, 64, 16)))

	scaled := src.Scale(32)
	if scaled.Width != 32 || scaled.Height != 8 {
		t.Errorf("expected 32x8, got %dx%d", scaled.Width, scaled.Height)
	}
	if len(scaled.Pixels) != scaled.Width*scaled.Height*scaled.Format.BytesPerPixel() {
		t.Errorf("pixel buffer size mismatch: %d", len(scaled.Pixels))
	}

	if same := src.Scale(128); same != src {
		t.Error("expected receiver when no scaling is needed")
	}
	if same := src.Scale(0); same != src {
		t.Error("expected receiver for non-positive max dimension")
	}
}

func TestData_EncodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	data := FromImage(src)

	out, err := data.EncodePNG()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	again, err := StdDecoder{}.Decode(out, EncodingPNG)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if !bytes.Equal(again.Pixels[12:16], []byte{1, 2, 3, 255}) {
		t.Errorf("unexpected pixel after round trip: %v", again.Pixels[12:16])
	}
}

func TestPixelFormat_BytesPerPixel(t *testing.T) {
	tests := map[PixelFormat]int{
		R8:           1,
		R8G8:         2,
		R8G8B8:       3,
		R8G8B8A8:     4,
		R16:          2,
		R16G16B16A16: 8,
	}
	for f, want := range tests {
		if got := f.BytesPerPixel(); got != want {
			t.Errorf("%s.BytesPerPixel() = %d, want %d", f, got, want)
		}
	}
}

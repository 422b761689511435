// Package texture decodes encoded image payloads into pixel data.
package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Encoding is the container encoding of an image payload.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingPNG
	EncodingJPEG
)

// String returns the string representation of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingPNG:
		return "png"
	case EncodingJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// MediaType returns the IANA media type of the encoding.
func (e Encoding) MediaType() string {
	switch e {
	case EncodingPNG:
		return "image/png"
	case EncodingJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// PixelFormat describes the layout of Data.Pixels.
type PixelFormat int

const (
	R8 PixelFormat = iota
	R8G8
	R8G8B8
	R8G8B8A8
	R16
	R16G16B16A16
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case R8:
		return "R8"
	case R8G8:
		return "R8G8"
	case R8G8B8:
		return "R8G8B8"
	case R8G8B8A8:
		return "R8G8B8A8"
	case R16:
		return "R16"
	case R16G16B16A16:
		return "R16G16B16A16"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// BytesPerPixel returns the size of one pixel in bytes.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case R8:
		return 1
	case R8G8, R16:
		return 2
	case R8G8B8:
		return 3
	case R8G8B8A8:
		return 4
	case R16G16B16A16:
		return 8
	default:
		return 0
	}
}

// Data is a decoded image. Rows are tightly packed, top to bottom;
// 16-bit samples are little-endian.
type Data struct {
	Pixels []byte
	Format PixelFormat
	Width  int
	Height int
}

// Decoder turns encoded bytes into pixel data.
type Decoder interface {
	Decode(data []byte, enc Encoding) (*Data, error)
}

// Sniffer guesses the encoding of a payload from its content.
type Sniffer interface {
	Sniff(data []byte) (Encoding, bool)
}

// StdDecoder decodes PNG and JPEG with the standard library codecs.
type StdDecoder struct{}

// Decode implements Decoder.
func (StdDecoder) Decode(data []byte, enc Encoding) (*Data, error) {
	var (
		img image.Image
		err error
	)
	switch enc {
	case EncodingPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case EncodingJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", enc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return FromImage(img), nil
}

var (
	pngSignature  = []byte("\x89PNG\r\n\x1a\n")
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
)

// MagicSniffer recognizes PNG and JPEG by their signatures.
type MagicSniffer struct{}

// Sniff implements Sniffer.
func (MagicSniffer) Sniff(data []byte) (Encoding, bool) {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return EncodingPNG, true
	case bytes.HasPrefix(data, jpegSignature):
		return EncodingJPEG, true
	default:
		return EncodingUnknown, false
	}
}

// FromImage converts a decoded Go image into tightly packed pixel data.
func FromImage(src image.Image) *Data {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Data{Width: w, Height: h}

	switch img := src.(type) {
	case *image.Gray:
		out.Format = R8
		out.Pixels = packRows(img.Pix, img.Stride, w, h)
	case *image.Gray16:
		out.Format = R16
		out.Pixels = swap16(packRows(img.Pix, img.Stride, w*2, h))
	case *image.NRGBA:
		out.Format = R8G8B8A8
		out.Pixels = packRows(img.Pix, img.Stride, w*4, h)
	case *image.NRGBA64:
		out.Format = R16G16B16A16
		out.Pixels = swap16(packRows(img.Pix, img.Stride, w*8, h))
	case *image.RGBA64:
		nrgba := image.NewNRGBA64(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		out.Format = R16G16B16A16
		out.Pixels = swap16(nrgba.Pix)
	case *image.RGBA:
		nrgba := toNRGBA(img)
		if img.Opaque() {
			out.Format = R8G8B8
			out.Pixels = dropAlpha(nrgba.Pix)
		} else {
			out.Format = R8G8B8A8
			out.Pixels = nrgba.Pix
		}
	case *image.YCbCr, *image.CMYK:
		// JPEG output is always opaque.
		nrgba := toNRGBA(src)
		out.Format = R8G8B8
		out.Pixels = dropAlpha(nrgba.Pix)
	default:
		out.Format = R8G8B8A8
		out.Pixels = toNRGBA(src).Pix
	}
	return out
}

// Image returns the pixel data as a Go image.
func (d *Data) Image() image.Image {
	r := image.Rect(0, 0, d.Width, d.Height)
	switch d.Format {
	case R8:
		return &image.Gray{Pix: d.Pixels, Stride: d.Width, Rect: r}
	case R16:
		return &image.Gray16{Pix: swap16(append([]byte(nil), d.Pixels...)), Stride: d.Width * 2, Rect: r}
	case R8G8:
		img := image.NewNRGBA(r)
		for i, j := 0, 0; i+1 < len(d.Pixels); i, j = i+2, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+3] = d.Pixels[i], d.Pixels[i+1], 0xFF
		}
		return img
	case R8G8B8:
		img := image.NewNRGBA(r)
		for i, j := 0, 0; i+2 < len(d.Pixels); i, j = i+3, j+4 {
			copy(img.Pix[j:j+3], d.Pixels[i:i+3])
			img.Pix[j+3] = 0xFF
		}
		return img
	case R16G16B16A16:
		return &image.NRGBA64{Pix: swap16(append([]byte(nil), d.Pixels...)), Stride: d.Width * 8, Rect: r}
	default:
		return &image.NRGBA{Pix: d.Pixels, Stride: d.Width * 4, Rect: r}
	}
}

// Scale returns a copy whose longest side is at most maxDim, keeping the
// aspect ratio. The receiver is returned when no scaling is needed.
func (d *Data) Scale(maxDim int) *Data {
	if maxDim <= 0 || (d.Width <= maxDim && d.Height <= maxDim) {
		return d
	}

	w, h := d.Width, d.Height
	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), d.Image(), image.Rect(0, 0, d.Width, d.Height), draw.Src, nil)
	return FromImage(dst)
}

// EncodePNG writes the pixel data as a PNG file.
func (d *Data) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, d.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func packRows(pix []byte, stride, rowLen, rows int) []byte {
	if stride == rowLen && len(pix) == rowLen*rows {
		return pix
	}
	out := make([]byte, 0, rowLen*rows)
	for y := 0; y < rows; y++ {
		out = append(out, pix[y*stride:y*stride+rowLen]...)
	}
	return out
}

// swap16 converts big-endian 16-bit samples (Go's in-memory order) to
// little-endian in place, and back.
func swap16(pix []byte) []byte {
	for i := 0; i+1 < len(pix); i += 2 {
		binary.LittleEndian.PutUint16(pix[i:], binary.BigEndian.Uint16(pix[i:]))
	}
	return pix
}

func dropAlpha(pix []byte) []byte {
	out := make([]byte, 0, len(pix)/4*3)
	for i := 0; i+3 < len(pix); i += 4 {
		out = append(out, pix[i], pix[i+1], pix[i+2])
	}
	return out
}

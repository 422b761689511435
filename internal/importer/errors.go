package importer

import (
	"errors"
	"fmt"

	"github.com/roboco-io/gltfimport/internal/gltf"
)

// Error kinds. Every resource failure returned by this package matches one
// of these via errors.Is. Document validation and context errors are passed
// through unchanged.
var (
	ErrIO                       = errors.New("importer: I/O failure")
	ErrBase64                   = errors.New("importer: malformed base64 data")
	ErrInvalidURI               = errors.New("importer: malformed URI")
	ErrUnsupportedScheme        = errors.New("importer: unsupported URI scheme")
	ErrExternalReference        = errors.New("importer: external reference used where only self-contained data is permitted")
	ErrMissingBlob              = errors.New("importer: missing embedded blob")
	ErrBufferLength             = errors.New("importer: buffer length mismatch")
	ErrViewOutOfRange           = errors.New("importer: buffer view out of range")
	ErrUnsupportedImageEncoding = errors.New("importer: unsupported image encoding")
	ErrImageDecode              = errors.New("importer: image decode failure")
)

// BufferLengthError reports a buffer whose materialized bytes are shorter
// than its declared byteLength.
type BufferLengthError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *BufferLengthError) Error() string {
	return fmt.Sprintf("importer: buffer %d length mismatch: expected at least %d bytes, got %d",
		e.Index, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrBufferLength) hold.
func (e *BufferLengthError) Is(target error) bool {
	return target == ErrBufferLength
}

// ViewRangeError reports an image buffer view that does not fit inside the
// materialized buffer it references.
type ViewRangeError struct {
	Buffer    int
	Offset    int
	Length    int
	BufferLen int // -1 when the buffer index itself is out of range
}

func (e *ViewRangeError) Error() string {
	if e.BufferLen < 0 {
		return fmt.Sprintf("importer: buffer view references missing buffer %d", e.Buffer)
	}
	return fmt.Sprintf("importer: buffer view (offset %d, length %d) exceeds buffer %d of %d bytes",
		e.Offset, e.Length, e.Buffer, e.BufferLen)
}

// Is makes errors.Is(err, ErrViewOutOfRange) hold.
func (e *ViewRangeError) Is(target error) bool {
	return target == ErrViewOutOfRange
}

// ResourceError attaches the failing declaration to an error.
type ResourceError struct {
	Resource string // "buffer" or "image"
	Index    int
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Resource, e.Index, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// kinds is ordered so the most specific kind is reported first.
var kinds = []struct {
	err  error
	name string
}{
	{ErrExternalReference, "external_reference"},
	{ErrMissingBlob, "missing_blob"},
	{ErrBufferLength, "buffer_length"},
	{ErrViewOutOfRange, "view_out_of_range"},
	{ErrUnsupportedImageEncoding, "unsupported_image_encoding"},
	{ErrImageDecode, "image_decode"},
	{ErrUnsupportedScheme, "unsupported_scheme"},
	{ErrInvalidURI, "invalid_uri"},
	{ErrBase64, "base64"},
	{ErrIO, "io"},
	{gltf.ErrInvalidDocument, "invalid_document"},
}

// Kind returns a short, stable name for the error kind of err, suitable as
// a metric label. Errors of no known kind are reported as "other".
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}

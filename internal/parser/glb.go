package parser

import (
	"encoding/binary"
	"fmt"
	"io"
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#binary-gltf-layout
const (
	glbMagic       = "glTF"
	glbVersion     = 2
	glbHeaderSize  = 12
	chunkHeaderLen = 8

	ChunkJSON uint32 = 0x4E4F534A // "JSON"
	ChunkBIN  uint32 = 0x004E4942 // "BIN\0"
)

// Header is the 12-byte GLB file header.
type Header struct {
	Magic   uint32
	Version uint32
	Length  uint32 // total length of the container, header included
}

// Chunk is one GLB chunk.
type Chunk struct {
	Type uint32
	Data []byte
}

// GLB is a split binary container.
type GLB struct {
	Header Header
	JSON   []byte
	Bin    []byte // nil when there is no BIN chunk
}

// ParseHeader parses the GLB header from raw bytes.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < glbHeaderSize {
		return nil, fmt.Errorf("GLB header too small: %d bytes", len(data))
	}
	if string(data[0:4]) != glbMagic {
		return nil, fmt.Errorf("invalid GLB magic: %q", data[0:4])
	}

	h := &Header{
		Magic:   binary.LittleEndian.Uint32(data[0:4]),
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Length:  binary.LittleEndian.Uint32(data[8:12]),
	}
	if h.Version != glbVersion {
		return nil, fmt.Errorf("unsupported GLB version: %d", h.Version)
	}
	if h.Length < glbHeaderSize {
		return nil, fmt.Errorf("GLB header declares %d bytes, less than the header itself", h.Length)
	}
	if int64(h.Length) > int64(len(data)) {
		return nil, fmt.Errorf("GLB header declares %d bytes, have %d", h.Length, len(data))
	}
	return h, nil
}

// ChunkReader reads chunks from the body of a GLB container.
type ChunkReader struct {
	data   []byte
	offset int
}

// NewChunkReader creates a chunk reader over the bytes following the header.
func NewChunkReader(data []byte) *ChunkReader {
	return &ChunkReader{data: data}
}

// Read reads the next chunk.
func (r *ChunkReader) Read() (*Chunk, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}

	if r.offset+chunkHeaderLen > len(r.data) {
		return nil, fmt.Errorf("incomplete chunk header at offset %d", r.offset)
	}
	length := binary.LittleEndian.Uint32(r.data[r.offset : r.offset+4])
	typ := binary.LittleEndian.Uint32(r.data[r.offset+4 : r.offset+8])
	r.offset += chunkHeaderLen

	if int64(r.offset)+int64(length) > int64(len(r.data)) {
		return nil, fmt.Errorf("incomplete chunk data at offset %d: need %d bytes, have %d",
			r.offset, length, len(r.data)-r.offset)
	}
	chunk := &Chunk{
		Type: typ,
		Data: r.data[r.offset : r.offset+int(length)],
	}
	r.offset += int(length)

	return chunk, nil
}

// ParseGLB splits a binary container into its JSON and BIN chunks.
// The first chunk must be JSON; a BIN chunk may follow; chunks of any other
// type are skipped.
func ParseGLB(data []byte) (*GLB, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	reader := NewChunkReader(data[glbHeaderSize:header.Length])
	glb := &GLB{Header: *header}

	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("GLB container has no JSON chunk")
	}
	if err != nil {
		return nil, err
	}
	if first.Type != ChunkJSON {
		return nil, fmt.Errorf("first GLB chunk must be JSON, got %s", ChunkName(first.Type))
	}
	glb.JSON = first.Data

	seenBin := false
	for {
		chunk, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if chunk.Type == ChunkBIN && !seenBin {
			// The blob owns its bytes independent of the input slice.
			glb.Bin = make([]byte, len(chunk.Data))
			copy(glb.Bin, chunk.Data)
			seenBin = true
		}
	}

	return glb, nil
}

// ChunkName returns the human-readable name for a chunk type.
func ChunkName(typ uint32) string {
	switch typ {
	case ChunkJSON:
		return "JSON"
	case ChunkBIN:
		return "BIN"
	default:
		return fmt.Sprintf("UNKNOWN(0x%08X)", typ)
	}
}

package omfile

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Decode decompresses an om buffer produced by Encode. The input is never
// modified.
func Decode(b []byte) (*Array, error) {
	a, err := readHeader(b)
	if err != nil {
		return nil, err
	}
	_, dec, err := coders()
	if err != nil {
		return nil, err
	}

	grid := newChunkGrid(a.Dims, a.Chunks)
	n := grid.count()
	if n > (len(b)-headerSize)/8 {
		return nil, errors.Wrap(ErrInvalidFile, "truncated chunk table")
	}
	tableEnd := headerSize + 8*n
	frames := b[tableEnd:]

	a.Data = make([]float32, a.Dims.Elements())
	bpv := a.Compression.bytesPerValue()

	var raw []byte
	start := uint64(0)
	for i := 0; i < n; i++ {
		end := binary.LittleEndian.Uint64(b[headerSize+8*i:])
		if end < start || end > uint64(len(frames)) {
			return nil, errors.Wrapf(ErrInvalidFile, "chunk %d offset out of range", i)
		}
		raw, err = dec.DecodeAll(frames[start:end], raw[:0])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFile, "chunk %d: %v", i, err)
		}

		row, col, size := grid.extent(i)
		if len(raw) != size.Elements()*bpv {
			return nil, errors.Wrapf(ErrInvalidFile, "chunk %d has %d bytes, want %d", i, len(raw), size.Elements()*bpv)
		}
		a.decodeChunk(raw, row, col, size)
		start = end
	}

	return a, nil
}

// ReadFile reads and decodes the om file at path.
func ReadFile(path string) (*Array, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read om file %s", path)
	}
	return Decode(b)
}

func readHeader(b []byte) (*Array, error) {
	if len(b) < headerSize {
		return nil, errors.Wrap(ErrInvalidFile, "short header")
	}
	if b[0] != magic[0] || b[1] != magic[1] {
		return nil, errors.Wrap(ErrInvalidFile, "bad magic")
	}
	if b[2] != Version {
		return nil, errors.Wrapf(ErrInvalidFile, "version %d", b[2])
	}

	compression := Compression(b[3])
	if compression != CompressionInt16Delta && compression != CompressionFloat32 {
		return nil, errors.Wrapf(ErrUnsupportedCompression, "compression %d", b[3])
	}

	var extents [4]uint64
	for i := range extents {
		extents[i] = binary.LittleEndian.Uint64(b[8+8*i:])
		if extents[i] == 0 || extents[i] > maxElements {
			return nil, ErrInvalidShape
		}
	}
	if extents[0] > maxElements/extents[1] {
		return nil, errors.Wrap(ErrInvalidFile, "array too large")
	}

	a := &Array{
		Dims:        Shape{Rows: int(extents[0]), Cols: int(extents[1])},
		Chunks:      Shape{Rows: int(extents[2]), Cols: int(extents[3])},
		Compression: compression,
		ScaleFactor: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
	}
	if compression == CompressionInt16Delta && !(a.ScaleFactor > 0) {
		return nil, ErrInvalidScaleFactor
	}
	return a, nil
}

func (a *Array) decodeChunk(raw []byte, row, col int, size Shape) {
	stride := a.Dims.Cols

	if a.Compression == CompressionFloat32 {
		for r := 0; r < size.Rows; r++ {
			dst := a.Data[(row+r)*stride+col : (row+r)*stride+col+size.Cols]
			for c := range dst {
				dst[c] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*(r*size.Cols+c):]))
			}
		}
		return
	}

	prev := make([]int16, size.Cols)
	for r := 0; r < size.Rows; r++ {
		dst := a.Data[(row+r)*stride+col : (row+r)*stride+col+size.Cols]
		for c := range dst {
			q := int16(binary.LittleEndian.Uint16(raw[2*(r*size.Cols+c):]))
			if r > 0 {
				q += prev[c]
			}
			prev[c] = q
			dst[c] = dequantize(q, a.ScaleFactor)
		}
	}
}

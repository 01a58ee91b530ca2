package omfile

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/nvr-ai/omtool/util"
)

// Encode compresses a row-major array into an in-memory om buffer.
//
// Arguments:
//   - data: Row-major values, len(data) must equal dims.Rows*dims.Cols.
//   - dims: The array extent.
//   - chunks: The chunk extent; chunks at the array edge are clipped.
//   - compression: How chunk payloads are encoded.
//   - scaleFactor: Quantization factor for CompressionInt16Delta.
//
// Returns:
//   - []byte: The encoded buffer.
//   - error: Error if the parameters are invalid or compression fails.
func Encode(data []float32, dims, chunks Shape, compression Compression, scaleFactor float32) ([]byte, error) {
	if err := validate(len(data), dims, chunks, compression, scaleFactor); err != nil {
		return nil, err
	}
	enc, _, err := coders()
	if err != nil {
		return nil, err
	}

	grid := newChunkGrid(dims, chunks)
	n := grid.count()
	tableEnd := headerSize + 8*n

	out := make([]byte, tableEnd, tableEnd+len(data))
	writeHeader(out, compression, scaleFactor, dims, chunks)

	w := chunkWriter{compression: compression, scaleFactor: scaleFactor}
	for i := 0; i < n; i++ {
		raw := w.encode(data, grid, i)
		out = enc.EncodeAll(raw, out)
		putUint64(out[headerSize+8*i:], len(out)-tableEnd)
	}

	return out, nil
}

// WriteFile encodes the array to path, creating missing parent directories
// and overwriting an existing file.
func WriteFile(path string, data []float32, dims, chunks Shape, compression Compression, scaleFactor float32) error {
	buf, err := Encode(data, dims, chunks, compression, scaleFactor)
	if err != nil {
		return err
	}
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrapf(err, "write om file %s", path)
	}
	return nil
}

func validate(n int, dims, chunks Shape, compression Compression, scaleFactor float32) error {
	if !dims.valid() || !chunks.valid() {
		return ErrInvalidShape
	}
	if n != dims.Elements() {
		return errors.Wrapf(ErrDimensionMismatch, "got %d values for %dx%d", n, dims.Rows, dims.Cols)
	}
	switch compression {
	case CompressionInt16Delta:
		if !(scaleFactor > 0) || math.IsInf(float64(scaleFactor), 1) {
			return ErrInvalidScaleFactor
		}
	case CompressionFloat32:
	default:
		return errors.Wrapf(ErrUnsupportedCompression, "compression %d", compression)
	}
	return nil
}

func writeHeader(b []byte, compression Compression, scaleFactor float32, dims, chunks Shape) {
	b[0], b[1] = magic[0], magic[1]
	b[2] = Version
	b[3] = byte(compression)
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(scaleFactor))
	putUint64(b[8:], dims.Rows)
	putUint64(b[16:], dims.Cols)
	putUint64(b[24:], chunks.Rows)
	putUint64(b[32:], chunks.Cols)
}

// chunkWriter holds scratch buffers reused across chunks.
type chunkWriter struct {
	compression Compression
	scaleFactor float32
	quantized   []int16
	raw         []byte
}

// encode returns the uncompressed payload of chunk i. The slice is reused by
// the next call.
func (w *chunkWriter) encode(data []float32, grid chunkGrid, i int) []byte {
	row, col, size := grid.extent(i)
	stride := grid.dims.Cols
	w.raw = w.raw[:0]

	if w.compression == CompressionFloat32 {
		for r := 0; r < size.Rows; r++ {
			offset := (row+r)*stride + col
			for _, v := range data[offset : offset+size.Cols] {
				w.raw = binary.LittleEndian.AppendUint32(w.raw, math.Float32bits(v))
			}
		}
		return w.raw
	}

	w.quantized = w.quantized[:0]
	for r := 0; r < size.Rows; r++ {
		offset := (row+r)*stride + col
		for _, v := range data[offset : offset+size.Cols] {
			w.quantized = append(w.quantized, quantize(v, w.scaleFactor))
		}
	}
	// Delta along rows, last row first so every row still sees its unmodified predecessor.
	for r := size.Rows - 1; r > 0; r-- {
		cur := w.quantized[r*size.Cols : (r+1)*size.Cols]
		prev := w.quantized[(r-1)*size.Cols : r*size.Cols]
		for c := range cur {
			cur[c] -= prev[c]
		}
	}
	for _, q := range w.quantized {
		w.raw = binary.LittleEndian.AppendUint16(w.raw, uint16(q))
	}
	return w.raw
}

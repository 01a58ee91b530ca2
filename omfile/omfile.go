// Package omfile encodes two dimensional float32 arrays into chunked,
// zstd-compressed buffers and files.
//
// An encoded buffer is laid out as:
//
//	header      "OM" | version | compression | scale factor | dims | chunks
//	offsets     one little-endian uint64 end offset per chunk
//	frames      one zstd frame per chunk, row-major chunk order
//
// CompressionInt16Delta is lossy: values are quantized with the scale factor
// into int16 and delta coded along the row axis of every chunk before
// compression. CompressionFloat32 stores the raw float bits.
package omfile

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Version is the layout version written into every header.
const Version uint8 = 1

// headerSize is magic(2) + version(1) + compression(1) + scale(4) + 4*uint64.
const headerSize = 40

// maxElements bounds the decoded array size accepted from a header.
const maxElements = 1 << 32

// nanSentinel marks NaN in quantized int16 data.
const nanSentinel = math.MaxInt16

var magic = [2]byte{'O', 'M'}

// Compression identifies how chunk payloads are encoded before zstd.
type Compression uint8

const (
	// CompressionInt16Delta quantizes with a scale factor into int16.
	CompressionInt16Delta Compression = 1
	// CompressionFloat32 keeps float32 values bit exact.
	CompressionFloat32 Compression = 2
)

// String returns the name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionInt16Delta:
		return "int16-delta"
	case CompressionFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

func (c Compression) bytesPerValue() int {
	if c == CompressionInt16Delta {
		return 2
	}
	return 4
}

var (
	ErrInvalidFile            = errors.New("omfile: invalid file")
	ErrUnsupportedCompression = errors.New("omfile: unsupported compression")
	ErrDimensionMismatch      = errors.New("omfile: data length does not match dimensions")
	ErrInvalidShape           = errors.New("omfile: dimensions and chunks must be positive")
	ErrInvalidScaleFactor     = errors.New("omfile: scale factor must be positive")
)

// Shape is a rows x columns extent, used for both array and chunk sizes.
type Shape struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Elements returns Rows*Cols.
func (s Shape) Elements() int {
	return s.Rows * s.Cols
}

func (s Shape) valid() bool {
	return s.Rows > 0 && s.Cols > 0
}

// Array is a decoded array together with the parameters it was encoded with.
type Array struct {
	Data        []float32
	Dims        Shape
	Chunks      Shape
	Compression Compression
	ScaleFactor float32
}

// chunkGrid iterates chunk extents in row-major order.
type chunkGrid struct {
	dims, chunks Shape
	nRows, nCols int
}

func newChunkGrid(dims, chunks Shape) chunkGrid {
	return chunkGrid{
		dims:   dims,
		chunks: chunks,
		nRows:  (dims.Rows + chunks.Rows - 1) / chunks.Rows,
		nCols:  (dims.Cols + chunks.Cols - 1) / chunks.Cols,
	}
}

func (g chunkGrid) count() int {
	return g.nRows * g.nCols
}

// extent returns the first row, first column and size of chunk i.
func (g chunkGrid) extent(i int) (row, col int, size Shape) {
	row = (i / g.nCols) * g.chunks.Rows
	col = (i % g.nCols) * g.chunks.Cols
	size = Shape{
		Rows: min(g.chunks.Rows, g.dims.Rows-row),
		Cols: min(g.chunks.Cols, g.dims.Cols-col),
	}
	return row, col, size
}

var (
	codersOnce sync.Once
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
	codersErr  error
)

// coders returns the shared zstd encoder and decoder. EncodeAll and DecodeAll
// are safe for concurrent use.
func coders() (*zstd.Encoder, *zstd.Decoder, error) {
	codersOnce.Do(func() {
		encoder, codersErr = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1))
		if codersErr != nil {
			codersErr = errors.Wrap(codersErr, "create zstd encoder")
			return
		}
		decoder, codersErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if codersErr != nil {
			codersErr = errors.Wrap(codersErr, "create zstd decoder")
		}
	})
	return encoder, decoder, codersErr
}

func quantize(v, scaleFactor float32) int16 {
	if v != v {
		return nanSentinel
	}
	q := math.Round(float64(v) * float64(scaleFactor))
	if q >= nanSentinel {
		return nanSentinel - 1
	}
	if q < math.MinInt16 {
		return math.MinInt16
	}
	return int16(q)
}

func dequantize(q int16, scaleFactor float32) float32 {
	if q == nanSentinel {
		return float32(math.NaN())
	}
	return float32(q) / scaleFactor
}

func putUint64(b []byte, v int) {
	binary.LittleEndian.PutUint64(b, uint64(v))
}

package benchmark

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/omtool/omfile"
	"github.com/nvr-ai/omtool/profiler"
	"github.com/nvr-ai/omtool/solar"
	"github.com/nvr-ai/omtool/timeseries"
)

// Location and period of the solar workloads.
const (
	SolarLatitude    float32 = 47
	SolarLongitude   float32 = 8
	SolarScaleFactor float32 = 1000
)

var (
	solarStart = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	solarEnd   = time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC)
)

// SolarTimeRange is the hourly range of the solar radiation workload.
func SolarTimeRange() timeseries.TimeRange {
	return timeseries.TimeRange{Start: solarStart, End: solarEnd, Dt: time.Hour}
}

// GenerateSample builds a deterministic float32 series of the given size in
// bytes, laid out with at most cols columns.
func GenerateSample(bytes, cols int) (Sample, error) {
	n := bytes / 4
	if n < 1 || cols < 1 {
		return Sample{}, errors.Wrapf(ErrInvalidConfig, "cannot generate %d bytes in %d columns", bytes, cols)
	}
	cols = min(cols, n)
	rows := n / cols

	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(math.Sin(float64(i)/1000)*20 + float64(i%cols)*0.01)
	}
	return Sample{Data: data, Rows: rows, Cols: cols}, nil
}

func (s Sample) dims() omfile.Shape {
	return omfile.Shape{Rows: s.Rows, Cols: s.Cols}
}

// DefaultWorkloads returns the standard chain: sample generation, om
// compression and decompression in memory and on disk, solar radiation and its
// interpolation.
//
// Arguments:
//   - cfg: Sizes, chunk shapes and scale factor of the workloads.
//
// Returns:
//   - []Workload: The workloads in run order.
func DefaultWorkloads(cfg *Config) []Workload {
	size := profiler.FormatBytes(uint64(cfg.SampleBytes))
	coarse, fine := cfg.CoarseChunks, cfg.FineChunks
	hourly := SolarTimeRange()
	quarterHourly := hourly.WithDt(15 * time.Minute)

	return []Workload{
		NewWorkload(
			fmt.Sprintf("Generate sample data %s", size),
			45*time.Millisecond,
			nil, ArtifactSeries,
			func(*Artifacts) (Sample, error) {
				return GenerateSample(cfg.SampleBytes, cfg.SampleColumns)
			},
			func(a *Artifacts, s Sample) { a.Series = s },
		),
		NewWorkload(
			fmt.Sprintf("Compress om %s in memory, chunks %dx%d", size, coarse.Rows, coarse.Cols),
			380*time.Millisecond,
			[]Artifact{ArtifactSeries}, "",
			func(a *Artifacts) ([]byte, error) {
				return omfile.Encode(a.Series.Data, a.Series.dims(), coarse, omfile.CompressionInt16Delta, cfg.ScaleFactor)
			},
			nil,
		),
		NewWorkload(
			fmt.Sprintf("Compress om %s in memory, chunks %dx%d", size, fine.Rows, fine.Cols),
			520*time.Millisecond,
			[]Artifact{ArtifactSeries}, ArtifactCompressed,
			func(a *Artifacts) ([]byte, error) {
				return omfile.Encode(a.Series.Data, a.Series.dims(), fine, omfile.CompressionInt16Delta, cfg.ScaleFactor)
			},
			func(a *Artifacts, b []byte) { a.Compressed = b },
		),
		NewWorkload(
			fmt.Sprintf("Decompress om %s from memory", size),
			160*time.Millisecond,
			[]Artifact{ArtifactCompressed}, "",
			func(a *Artifacts) (*omfile.Array, error) {
				return omfile.Decode(a.Compressed)
			},
			nil,
		),
		NewWorkload(
			fmt.Sprintf("Compress om %s to file, chunks %dx%d", size, fine.Rows, fine.Cols),
			540*time.Millisecond,
			[]Artifact{ArtifactSeries}, ArtifactFile,
			func(a *Artifacts) (struct{}, error) {
				return struct{}{}, omfile.WriteFile(a.FilePath, a.Series.Data, a.Series.dims(), fine, omfile.CompressionInt16Delta, cfg.ScaleFactor)
			},
			nil,
		),
		NewWorkload(
			fmt.Sprintf("Decompress om %s from file", size),
			190*time.Millisecond,
			[]Artifact{ArtifactFile}, "",
			func(a *Artifacts) (*omfile.Array, error) {
				return omfile.ReadFile(a.FilePath)
			},
			nil,
		),
		NewWorkload(
			"Calculate solar radiation 100 years hourly",
			28*time.Millisecond,
			nil, ArtifactRadiation,
			func(*Artifacts) ([]float32, error) {
				return solar.RadiationBackwardsAveraged(SolarLatitude, SolarLongitude, hourly)
			},
			func(a *Artifacts, r []float32) { a.Radiation = r },
		),
		NewWorkload(
			"Interpolate solar radiation 100 years to 15 minutes",
			75*time.Millisecond,
			[]Artifact{ArtifactRadiation}, "",
			func(a *Artifacts) ([]float32, error) {
				return solar.Interpolate(a.Radiation, timeseries.SolarBackwardsAveraged, hourly, quarterHourly,
					SolarLatitude, SolarLongitude, SolarScaleFactor)
			},
			nil,
		),
	}
}

package solar

import (
	"math"

	"github.com/nvr-ai/omtool/timeseries"
)

// minRadiation is the extraterrestrial radiation below which the clearness
// index is treated as unknown.
const minRadiation = 1

// Interpolate resamples a series from one time range onto another.
//
// SolarBackwardsAveraged data is split into a clearness index (data divided by
// the extraterrestrial radiation of the same step), the index is interpolated
// with a monotone hermite spline between step centres, and multiplied by the
// extraterrestrial radiation of the target steps. Other kinds are passed to
// timeseries.Interpolate.
//
// Arguments:
//   - data: Values sampled on from.
//   - kind: The interpolation kind.
//   - from: The time range of data.
//   - to: The target time range.
//   - latitude: Degrees north of the location.
//   - longitude: Degrees east of the location.
//   - scaleFactor: Rounding precision of the output.
//
// Returns:
//   - []float32: Values sampled on to.
//   - error: Error if the ranges, kind or coordinate are invalid.
func Interpolate(
	data []float32,
	kind timeseries.Kind,
	from, to timeseries.TimeRange,
	latitude, longitude, scaleFactor float32,
) ([]float32, error) {
	if kind != timeseries.SolarBackwardsAveraged {
		return timeseries.Interpolate(data, kind, from, to, scaleFactor)
	}
	if err := timeseries.CheckRanges(data, from, to); err != nil {
		return nil, err
	}

	extFrom, err := RadiationBackwardsAveraged(latitude, longitude, from)
	if err != nil {
		return nil, err
	}
	extTo, err := RadiationBackwardsAveraged(latitude, longitude, to)
	if err != nil {
		return nil, err
	}

	xs := timeseries.Positions(from, -from.Dt.Seconds()/2)
	targets := timeseries.Positions(to, -to.Dt.Seconds()/2)

	kt, err := timeseries.Resample(xs, clearnessIndex(data, extFrom), targets, timeseries.Hermite)
	if err != nil {
		return nil, err
	}
	for i := range kt {
		kt[i] = math.Max(kt[i], 0) * float64(extTo[i])
	}
	return timeseries.Round(kt, scaleFactor), nil
}

// clearnessIndex divides data by ext. Steps without sun or with missing data
// take the nearest known index, or 0 when none is known.
func clearnessIndex(data, ext []float32) []float64 {
	kt := make([]float64, len(data))
	for i, v := range data {
		if ext[i] >= minRadiation && !math.IsNaN(float64(v)) {
			kt[i] = float64(v) / float64(ext[i])
		} else {
			kt[i] = math.NaN()
		}
	}

	// Forward fill, then backward fill the leading gap.
	last := math.NaN()
	for i, v := range kt {
		if math.IsNaN(v) {
			kt[i] = last
		} else {
			last = v
		}
	}
	next := 0.0
	for i := len(kt) - 1; i >= 0; i-- {
		if math.IsNaN(kt[i]) {
			kt[i] = next
		} else {
			next = kt[i]
		}
	}
	return kt
}

package timeseries

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Kind selects how a series is resampled.
type Kind int

const (
	// Linear interpolates instantaneous values piecewise linearly.
	Linear Kind = iota
	// Hermite interpolates instantaneous values with a monotone cubic
	// (Fritsch-Butland) spline.
	Hermite
	// SolarBackwardsAveraged resamples averages over the preceding step of
	// solar radiation. It needs the sun position and is handled by the solar
	// package.
	SolarBackwardsAveraged
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	case SolarBackwardsAveraged:
		return "solar_backwards_averaged"
	default:
		return "unknown"
	}
}

var (
	ErrLengthMismatch  = errors.New("timeseries: series length does not match time range")
	ErrUnsupportedKind = errors.New("timeseries: unsupported interpolation kind")
	ErrEmptySeries     = errors.New("timeseries: empty series")
)

// Interpolate resamples data from one time range onto another and
// rounds the result to 1/scaleFactor. A scaleFactor <= 0 disables rounding.
//
// Arguments:
//   - data: Values sampled on from, len(data) must equal from.Count().
//   - kind: Linear or Hermite.
//   - from: The time range of data.
//   - to: The target time range.
//   - scaleFactor: Rounding precision of the output.
//
// Returns:
//   - []float32: Values sampled on to.
//   - error: Error if the ranges or kind are invalid.
func Interpolate(data []float32, kind Kind, from, to TimeRange, scaleFactor float32) ([]float32, error) {
	if kind != Linear && kind != Hermite {
		return nil, errors.Wrapf(ErrUnsupportedKind, "kind %s", kind)
	}
	if err := CheckRanges(data, from, to); err != nil {
		return nil, err
	}

	xs := Positions(from, 0)
	ys := ToFloat64(data)
	targets := Positions(to, 0)

	out, err := Resample(xs, ys, targets, kind)
	if err != nil {
		return nil, err
	}
	return Round(out, scaleFactor), nil
}

// CheckRanges validates data against its time range and the target range.
func CheckRanges(data []float32, from, to TimeRange) error {
	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if len(data) != from.Count() {
		return errors.Wrapf(ErrLengthMismatch, "got %d values for %d steps", len(data), from.Count())
	}
	if len(data) == 0 {
		return ErrEmptySeries
	}
	return nil
}

// Positions returns the timestamps of tr as unix seconds, shifted by offset
// seconds.
func Positions(tr TimeRange, offset float64) []float64 {
	xs := make([]float64, tr.Count())
	for i := range xs {
		xs[i] = tr.Seconds(i) + offset
	}
	return xs
}

// ToFloat64 widens a float32 series.
func ToFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// Resample evaluates an interpolant fitted to (xs, ys) at targets. Targets
// outside xs take the nearest end value. xs must be strictly increasing.
func Resample(xs, ys, targets []float64, kind Kind) ([]float64, error) {
	if len(xs) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]float64, len(targets))
	if len(xs) == 1 {
		for i := range out {
			out[i] = ys[0]
		}
		return out, nil
	}

	var p interp.FittablePredictor
	switch {
	case kind == Hermite && len(xs) >= 3:
		p = &interp.FritschButland{}
	default:
		p = &interp.PiecewiseLinear{}
	}
	if err := p.Fit(xs, ys); err != nil {
		return nil, errors.Wrap(err, "fit interpolant")
	}

	first, last := xs[0], xs[len(xs)-1]
	for i, x := range targets {
		x = math.Min(math.Max(x, first), last)
		out[i] = p.Predict(x)
	}
	return out, nil
}

// Round rounds every value to 1/scaleFactor and narrows to float32.
func Round(values []float64, scaleFactor float32) []float32 {
	if scaleFactor > 0 {
		floats.Scale(float64(scaleFactor), values)
		for i, v := range values {
			values[i] = math.Round(v)
		}
		floats.Scale(1/float64(scaleFactor), values)
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}

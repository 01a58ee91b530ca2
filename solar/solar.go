// Package solar computes extraterrestrial solar radiation series and resamples
// radiation averages to a different time step.
package solar

import (
	"math"
	"time"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/omtool/timeseries"
)

// SolarConstant is the mean extraterrestrial irradiance in W/m².
const SolarConstant float32 = 1367

var ErrInvalidCoordinate = errors.New("solar: latitude or longitude out of range")

// Position holds the sun parameters needed for radiation at a point in time.
type Position struct {
	// Declination in radians.
	Declination float32
	// EquationOfTime in minutes.
	EquationOfTime float32
	// Eccentricity is the earth-sun distance correction factor.
	Eccentricity float32
}

// PositionAt returns the sun position at t using Spencer's Fourier series.
func PositionAt(t time.Time) Position {
	t = t.UTC()
	hour := float32(t.Hour()) + float32(t.Minute())/60 + float32(t.Second())/3600
	g := 2 * math32.Pi / 365 * (float32(t.YearDay()-1) + (hour-12)/24)

	sin1, cos1 := math32.Sincos(g)
	sin2, cos2 := math32.Sincos(2 * g)
	sin3, cos3 := math32.Sincos(3 * g)

	return Position{
		Declination: 0.006918 - 0.399912*cos1 + 0.070257*sin1 -
			0.006758*cos2 + 0.000907*sin2 -
			0.002697*cos3 + 0.00148*sin3,
		EquationOfTime: 229.18 * (0.000075 + 0.001868*cos1 - 0.032077*sin1 -
			0.014615*cos2 - 0.040849*sin2),
		Eccentricity: 1.000110 + 0.034221*cos1 + 0.001280*sin1 +
			0.000719*cos2 + 0.000077*sin2,
	}
}

// HourAngle returns the solar hour angle in radians at t for a longitude in
// degrees, normalised to [-π, π).
func (p Position) HourAngle(t time.Time, longitude float32) float32 {
	t = t.UTC()
	minutes := float32(t.Hour()*60+t.Minute()) + float32(t.Second())/60
	trueSolar := minutes + p.EquationOfTime + 4*longitude
	h := (trueSolar/4 - 180) * math32.Pi / 180
	h = math32.Mod(h+math32.Pi, 2*math32.Pi)
	if h < 0 {
		h += 2 * math32.Pi
	}
	return h - math32.Pi
}

// RadiationBackwardsAveraged returns, for every step of tr, the mean
// extraterrestrial radiation on a horizontal surface in W/m² over the step
// ending at that timestamp.
//
// Arguments:
//   - latitude: Degrees north, within [-90, 90].
//   - longitude: Degrees east, within [-180, 180].
//   - tr: The time range, with a step of at most one day.
//
// Returns:
//   - []float32: One average per step.
//   - error: Error if the coordinate or the time range is invalid.
func RadiationBackwardsAveraged(latitude, longitude float32, tr timeseries.TimeRange) ([]float32, error) {
	if math32.Abs(latitude) > 90 || math32.Abs(longitude) > 180 {
		return nil, errors.Wrapf(ErrInvalidCoordinate, "%.4f,%.4f", latitude, longitude)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	if tr.Dt > 24*time.Hour {
		return nil, errors.Wrapf(timeseries.ErrInvalidTimeRange, "step %s longer than a day", tr.Dt)
	}

	phi := latitude * math32.Pi / 180
	sinPhi, cosPhi := math32.Sincos(phi)
	width := float32(tr.Dt.Seconds() / 86400 * 2 * math.Pi)

	out := make([]float32, tr.Count())
	for i := range out {
		end := tr.Time(i)
		p := PositionAt(end.Add(-tr.Dt / 2))
		h2 := p.HourAngle(end, longitude)
		out[i] = SolarConstant * p.Eccentricity * meanCosZenith(sinPhi, cosPhi, p.Declination, h2-width, h2)
	}
	return out, nil
}

// meanCosZenith averages max(cos(zenith), 0) over hour angles [h1, h2].
func meanCosZenith(sinPhi, cosPhi, declination, h1, h2 float32) float32 {
	sinDec, cosDec := math32.Sincos(declination)

	// Sunset hour angle.
	var omega float32
	switch x := -(sinPhi * sinDec) / (cosPhi * cosDec); {
	case x <= -1 || cosPhi == 0:
		omega = math32.Pi
	case x >= 1:
		omega = 0
	default:
		omega = math32.Acos(x)
	}

	integral := func(a, b float32) float32 {
		a = math32.Max(a, -omega)
		b = math32.Min(b, omega)
		if b <= a {
			return 0
		}
		return sinPhi*sinDec*(b-a) + cosPhi*cosDec*(math32.Sin(b)-math32.Sin(a))
	}

	var sum float32
	if h1 < -math32.Pi {
		sum = integral(h1+2*math32.Pi, math32.Pi) + integral(-math32.Pi, h2)
	} else {
		sum = integral(h1, h2)
	}
	return math32.Max(sum/(h2-h1), 0)
}

// Package timeseries provides fixed-step time ranges and interpolation of
// series sampled on them.
package timeseries

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidTimeRange is returned for ranges with a non-positive step or an
// end before the start.
var ErrInvalidTimeRange = errors.New("timeseries: invalid time range")

// TimeRange is the half-open interval [Start, End) sampled every Dt.
type TimeRange struct {
	Start time.Time
	End   time.Time
	Dt    time.Duration
}

// NewTimeRange creates a validated time range.
func NewTimeRange(start, end time.Time, dt time.Duration) (TimeRange, error) {
	tr := TimeRange{Start: start, End: end, Dt: dt}
	return tr, tr.Validate()
}

// Validate checks that the step is positive and the range is not reversed.
func (tr TimeRange) Validate() error {
	if tr.Dt <= 0 {
		return errors.Wrapf(ErrInvalidTimeRange, "step %s", tr.Dt)
	}
	if tr.End.Before(tr.Start) {
		return errors.Wrapf(ErrInvalidTimeRange, "end %s before start %s", tr.End, tr.Start)
	}
	return nil
}

// Count returns the number of steps in the range.
func (tr TimeRange) Count() int {
	if tr.Dt <= 0 || !tr.End.After(tr.Start) {
		return 0
	}
	return int((tr.End.Sub(tr.Start) + tr.Dt - 1) / tr.Dt)
}

// Time returns the i-th timestamp.
func (tr TimeRange) Time(i int) time.Time {
	return tr.Start.Add(time.Duration(i) * tr.Dt)
}

// Seconds returns the i-th timestamp as unix seconds.
func (tr TimeRange) Seconds(i int) float64 {
	return float64(tr.Start.Unix()) + float64(i)*tr.Dt.Seconds()
}

// WithDt returns the same interval sampled with a different step.
func (tr TimeRange) WithDt(dt time.Duration) TimeRange {
	return TimeRange{Start: tr.Start, End: tr.End, Dt: dt}
}

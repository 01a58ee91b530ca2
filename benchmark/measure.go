package benchmark

import (
	"math"
	"time"
)

// Operation is a workload body under measurement. It takes no input and may
// close over state produced by earlier workloads.
type Operation[T any] func() (T, error)

// Measure runs op once as an untimed warm-up and then samples it until budget
// has elapsed.
//
// The sampling loop always completes at least one timed iteration, and the
// deadline is only checked between iterations, so the last iteration may
// overshoot it by up to one operation duration.
//
// Arguments:
//   - budget: How long to keep sampling.
//   - op: The operation to measure.
//
// Returns:
//   - Measurement: The timing statistics of the timed iterations.
//   - T: The value returned by the last timed iteration.
//   - error: The first error returned by op; no statistics are produced then.
func Measure[T any](budget time.Duration, op Operation[T]) (Measurement, T, error) {
	value, err := op()
	if err != nil {
		var zero T
		return Measurement{}, zero, err
	}

	m := Measurement{Min: time.Duration(math.MaxInt64)}

	start := time.Now()
	deadline := start.Add(budget)
	last := start

	for {
		value, err = op()
		if err != nil {
			var zero T
			return Measurement{}, zero, err
		}

		// Each sub-start is the previous sub-end.
		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		if elapsed < m.Min {
			m.Min = elapsed
		}
		if elapsed > m.Max {
			m.Max = elapsed
		}
		m.Count++

		if now.After(deadline) {
			break
		}
	}

	m.Total = last.Sub(start)
	m.Mean = m.Total / time.Duration(m.Count)

	return m, value, nil
}

package benchmark

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func assertInvariants(t *testing.T, m Measurement) {
	t.Helper()
	assert.GreaterOrEqual(t, m.Count, 1, "at least one timed run")
	assert.LessOrEqual(t, m.Min, m.Mean, "min <= mean")
	assert.LessOrEqual(t, m.Mean, m.Max, "mean <= max")
	assert.Equal(t, m.Total/time.Duration(m.Count), m.Mean, "mean = total / count")
}

// TestMeasureConstantOperation checks that a near-zero operation is sampled
// thousands of times within a one second budget.
func TestMeasureConstantOperation(t *testing.T) {
	m, value, err := Measure(time.Second, func() (int, error) { return 42, nil })
	require.NoError(t, err)

	assertInvariants(t, m)
	assert.Equal(t, 42, value)
	assert.Greater(t, m.Count, 1000)
	assert.GreaterOrEqual(t, m.Total, time.Second)
	assert.Less(t, m.Mean, time.Millisecond)
	assert.Less(t, m.Min, time.Millisecond)
}

func TestMeasureSleepingOperation(t *testing.T) {
	m, _, err := Measure(time.Second, func() (struct{}, error) {
		time.Sleep(200 * time.Millisecond)
		return struct{}{}, nil
	})
	require.NoError(t, err)

	assertInvariants(t, m)
	assert.GreaterOrEqual(t, m.Count, 4)
	assert.LessOrEqual(t, m.Count, 7)
	assert.InDelta(t, 200, float64(m.Mean)/float64(time.Millisecond), 20)
	assert.GreaterOrEqual(t, m.Total, time.Second)
}

// TestMeasureOperationSlowerThanBudget checks the do-while shape: an
// operation longer than the budget still gets exactly one timed run.
func TestMeasureOperationSlowerThanBudget(t *testing.T) {
	m, _, err := Measure(10*time.Millisecond, func() (bool, error) {
		time.Sleep(60 * time.Millisecond)
		return true, nil
	})
	require.NoError(t, err)

	assertInvariants(t, m)
	assert.Equal(t, 1, m.Count)
	assert.Equal(t, m.Total, m.Min)
	assert.Equal(t, m.Total, m.Max)
	assert.GreaterOrEqual(t, m.Total, 60*time.Millisecond)
}

func TestMeasureWarmupFailure(t *testing.T) {
	calls := 0
	m, value, err := Measure(time.Second, func() (int, error) {
		calls++
		return 7, errBoom
	})

	assert.Equal(t, errBoom, err)
	assert.Equal(t, 1, calls, "no timed run after a failed warm-up")
	assert.Equal(t, Measurement{}, m)
	assert.Zero(t, value)
}

func TestMeasureTimedFailureDiscardsStatistics(t *testing.T) {
	calls := 0
	m, _, err := Measure(time.Second, func() (int, error) {
		calls++
		if calls == 3 {
			return 0, errBoom
		}
		return calls, nil
	})

	assert.Equal(t, errBoom, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, Measurement{}, m)
}

func TestMeasureReturnsLastTimedValue(t *testing.T) {
	calls := 0
	m, value, err := Measure(20*time.Millisecond, func() (int, error) {
		calls++
		return calls, nil
	})
	require.NoError(t, err)

	assert.Equal(t, calls, value)
	assert.Equal(t, m.Count+1, calls, "warm-up plus timed runs")
}

func TestMeasureInvariantsAcrossDurations(t *testing.T) {
	for _, d := range []time.Duration{0, 50 * time.Microsecond, 2 * time.Millisecond} {
		i := 0
		m, _, err := Measure(30*time.Millisecond, func() (int, error) {
			i++
			// Alternate durations so min and max differ.
			if i%2 == 0 {
				time.Sleep(d)
			}
			return i, nil
		})
		require.NoError(t, err)
		assertInvariants(t, m)
		assert.GreaterOrEqual(t, m.Total, 30*time.Millisecond)
	}
}

func TestMeasurementDiff(t *testing.T) {
	m := Measurement{Mean: 150 * time.Millisecond}
	assert.Equal(t, 50*time.Millisecond, m.Diff(100*time.Millisecond))
	assert.Equal(t, -50*time.Millisecond, m.Diff(200*time.Millisecond))
}

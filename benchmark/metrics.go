// Package benchmark - Functionality for timing workloads against recorded baselines.
package benchmark

import "time"

// Measurement captures the timing statistics of one sampled workload.
//
// The per-iteration durations tile Total, so Min <= Mean <= Max always holds.
type Measurement struct {
	Mean  time.Duration `json:"mean"  yaml:"mean"`
	Min   time.Duration `json:"min"   yaml:"min"`
	Max   time.Duration `json:"max"   yaml:"max"`
	Count int           `json:"count" yaml:"count"`
	Total time.Duration `json:"total" yaml:"total"`
}

// Diff returns the signed difference between the mean and a baseline.
func (m Measurement) Diff(baseline time.Duration) time.Duration {
	return m.Mean - baseline
}

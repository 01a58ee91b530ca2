package benchmark

import (
	"time"

	"github.com/pkg/errors"
)

// ErrMissingInput is returned when a workload runs before the workload that
// produces one of its inputs.
var ErrMissingInput = errors.New("benchmark: workload input not produced")

// Artifact names a value handed from one workload to a later one.
type Artifact string

const (
	// ArtifactSeries is the generated sample series.
	ArtifactSeries Artifact = "series"
	// ArtifactCompressed is the fine-chunked in-memory om buffer.
	ArtifactCompressed Artifact = "compressed"
	// ArtifactFile is the om file written to the data directory.
	ArtifactFile Artifact = "file"
	// ArtifactRadiation is the hourly solar radiation series.
	ArtifactRadiation Artifact = "radiation"
)

// Sample is a generated row-major float32 array.
type Sample struct {
	Data []float32
	Rows int
	Cols int
}

// Artifacts holds the chain state owned by a suite run. Workloads read their
// inputs from it and never modify them.
type Artifacts struct {
	Series     Sample
	Compressed []byte
	FilePath   string
	Radiation  []float32

	produced map[Artifact]bool
}

// NewArtifacts creates empty chain state whose file workloads use filePath.
func NewArtifacts(filePath string) *Artifacts {
	return &Artifacts{FilePath: filePath, produced: make(map[Artifact]bool)}
}

// Has reports whether an earlier workload produced the artifact.
func (a *Artifacts) Has(artifact Artifact) bool {
	return a.produced[artifact]
}

// Workload is one named, measured step of a suite.
type Workload struct {
	Name     string
	Baseline time.Duration
	// Inputs must be produced by earlier workloads.
	Inputs []Artifact
	// Output is produced by this workload, empty when the result is discarded.
	Output Artifact

	run func(budget time.Duration, a *Artifacts) (Measurement, error)
}

// NewWorkload builds a workload around op. After measuring, keep receives the
// value of the last timed iteration and stores it in the artifacts; it may be
// nil when the value is discarded or op writes its output elsewhere.
//
// Arguments:
//   - name: The row label.
//   - baseline: The reference mean.
//   - inputs: Artifacts op reads.
//   - output: Artifact this workload produces, or "".
//   - op: The operation under measurement.
//   - keep: Stores the value of op in the artifacts.
//
// Returns:
//   - Workload: The configured workload.
func NewWorkload[T any](
	name string,
	baseline time.Duration,
	inputs []Artifact,
	output Artifact,
	op func(a *Artifacts) (T, error),
	keep func(a *Artifacts, value T),
) Workload {
	return Workload{
		Name:     name,
		Baseline: baseline,
		Inputs:   inputs,
		Output:   output,
		run: func(budget time.Duration, a *Artifacts) (Measurement, error) {
			m, value, err := Measure(budget, func() (T, error) { return op(a) })
			if err != nil {
				return Measurement{}, err
			}
			if keep != nil {
				keep(a, value)
			}
			if output != "" {
				a.produced[output] = true
			}
			return m, nil
		},
	}
}

// Run checks the inputs of the workload and measures it.
func (w Workload) Run(budget time.Duration, a *Artifacts) (Measurement, error) {
	for _, input := range w.Inputs {
		if !a.Has(input) {
			return Measurement{}, errors.Wrapf(ErrMissingInput, "%q needs %q", w.Name, input)
		}
	}
	return w.run(budget, a)
}

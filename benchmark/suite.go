package benchmark

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvr-ai/omtool/profiler"
	"github.com/nvr-ai/omtool/util"
)

// TempFileName is the om file written by the file workloads inside the data
// directory.
const TempFileName = "test.om"

// ErrInvalidBudget is returned for a non-positive time budget.
var ErrInvalidBudget = errors.New("benchmark: time budget must be positive")

// Result is the outcome of one workload of a run.
type Result struct {
	Name        string         `json:"name"`
	Baseline    time.Duration  `json:"baseline"`
	Measurement Measurement    `json:"measurement"`
	Memory      profiler.Delta `json:"memory"`
}

// SuiteArgs represents the arguments for creating a new benchmark suite.
type SuiteArgs struct {
	// Budget is how long every workload is sampled.
	Budget time.Duration
	// DataDirectory receives the temporary om file.
	DataDirectory string
	// ReferenceName titles the diff column.
	ReferenceName string
	// Output receives the table, os.Stdout when nil.
	Output io.Writer
	// Logger receives progress logs, discarded when nil.
	Logger *slog.Logger
}

// Suite runs workloads in order and prints one table row per workload.
type Suite struct {
	budget    time.Duration
	dataDir   string
	table     *Table
	logger    *slog.Logger
	workloads []Workload
	results   []Result
}

// NewSuite creates a new benchmark suite.
//
// Arguments:
//   - args: The arguments for creating a new benchmark suite.
//
// Returns:
//   - *Suite: The benchmark suite.
//   - error: ErrInvalidBudget if the budget is not positive.
func NewSuite(args SuiteArgs) (*Suite, error) {
	if args.Budget <= 0 {
		return nil, errors.Wrapf(ErrInvalidBudget, "got %s", args.Budget)
	}
	if args.Output == nil {
		args.Output = os.Stdout
	}
	if args.Logger == nil {
		args.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Suite{
		budget:  args.Budget,
		dataDir: args.DataDirectory,
		table:   NewTable(args.Output, args.ReferenceName),
		logger:  args.Logger,
	}, nil
}

// AddWorkload appends workloads to the end of the chain.
func (s *Suite) AddWorkload(workloads ...Workload) {
	s.workloads = append(s.workloads, workloads...)
}

// Workloads returns the configured workloads in run order.
func (s *Suite) Workloads() []Workload {
	workloads := make([]Workload, len(s.workloads))
	copy(workloads, s.workloads)
	return workloads
}

// FilePath returns the path of the temporary om file.
func (s *Suite) FilePath() string {
	return filepath.Join(s.dataDir, TempFileName)
}

// Run executes every workload in order, printing the table header first and a
// row after each workload.
//
// The first failing workload stops the run; later workloads never start. The
// temporary om file is removed before Run returns on every path.
func (s *Suite) Run() error {
	logger := s.logger.With("run_id", uuid.NewString())
	artifacts := NewArtifacts(s.FilePath())
	defer util.RemoveQuietly(artifacts.FilePath)

	s.results = s.results[:0]
	if err := s.table.WriteHeader(); err != nil {
		return errors.Wrap(err, "write table header")
	}

	start := time.Now()
	for _, w := range s.workloads {
		logger.Debug("workload started", "workload", w.Name, "budget", s.budget)

		before := profiler.Take()
		m, err := w.Run(s.budget, artifacts)
		if err != nil {
			logger.Error("workload failed", "workload", w.Name, "error", err)
			return errors.WithMessagef(err, "workload %q", w.Name)
		}
		memory := profiler.Take().Since(before)

		logger.Debug("workload finished",
			"workload", w.Name,
			"runs", m.Count,
			"mean", m.Mean,
			"allocated", profiler.FormatBytes(memory.AllocBytes),
			"gc_cycles", memory.NumGC,
		)

		if err := s.table.WriteRow(Reduce(w.Name, m, w.Baseline)); err != nil {
			return errors.Wrap(err, "write table row")
		}
		s.results = append(s.results, Result{
			Name:        w.Name,
			Baseline:    w.Baseline,
			Measurement: m,
			Memory:      memory,
		})
	}

	logger.Info("benchmark completed", "workloads", len(s.results), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Results returns the results of the last run.
func (s *Suite) Results() []Result {
	results := make([]Result, len(s.results))
	copy(results, s.results)
	return results
}

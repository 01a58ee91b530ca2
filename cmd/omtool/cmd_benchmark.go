package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nvr-ai/omtool/benchmark"
)

func newBenchmarkCmd() *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure om compression and solar interpolation against reference timings",
		Long: `Runs the benchmark chain: sample generation, om compression and
decompression in memory and on disk, solar radiation and its interpolation.
Every workload is sampled for the given number of seconds and compared with
the timings of the reference machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			suite, err := benchmark.NewSuite(benchmark.SuiteArgs{
				Budget:        time.Duration(seconds) * time.Second,
				DataDirectory: cfg.DataDirectory,
				ReferenceName: cfg.ReferenceName,
				Output:        cmd.OutOrStdout(),
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			suite.AddWorkload(benchmark.DefaultWorkloads(cfg)...)

			logger.Info("benchmark started",
				"workloads", len(suite.Workloads()),
				"budget", time.Duration(seconds)*time.Second,
				"data_directory", cfg.DataDirectory,
			)
			return suite.Run()
		},
	}
	cmd.Flags().IntVarP(&seconds, "time", "t", 5, "seconds each workload is sampled")
	return cmd
}

// loadConfig reads the YAML file named by OMTOOL_CONFIG, or the defaults when
// unset, and applies DATA_DIRECTORY.
func loadConfig() (*benchmark.Config, error) {
	cfg := benchmark.DefaultConfig()
	if path := os.Getenv(configEnv); path != "" {
		loaded, err := benchmark.LoadConfig(path)
		if err != nil {
			return nil, errors.WithMessagef(err, "load %s", path)
		}
		cfg = loaded
	}
	if dir := os.Getenv(dataDirectoryEnv); dir != "" {
		cfg.DataDirectory = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

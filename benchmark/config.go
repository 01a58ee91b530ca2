package benchmark

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/omtool/omfile"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("benchmark: invalid config")

// Config represents the benchmark configuration.
type Config struct {
	// DataDirectory holds the temporary om file written by the file workloads.
	DataDirectory string `json:"dataDirectory" yaml:"dataDirectory"`
	// ReferenceName names the machine the baselines were recorded on.
	ReferenceName string `json:"referenceName" yaml:"referenceName"`
	// SampleBytes is the size of the generated float32 series.
	SampleBytes int `json:"sampleBytes" yaml:"sampleBytes"`
	// SampleColumns is the column count of the generated series.
	SampleColumns int          `json:"sampleColumns" yaml:"sampleColumns"`
	CoarseChunks  omfile.Shape `json:"coarseChunks"  yaml:"coarseChunks"`
	FineChunks    omfile.Shape `json:"fineChunks"    yaml:"fineChunks"`
	ScaleFactor   float32      `json:"scaleFactor"   yaml:"scaleFactor"`
	LogLevel      string       `json:"logLevel"      yaml:"logLevel"`
}

// DefaultConfig returns a default benchmark configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDirectory: "./data",
		ReferenceName: DefaultReferenceName,
		SampleBytes:   100 * 1024 * 1024,
		SampleColumns: 1000,
		CoarseChunks:  omfile.Shape{Rows: 100, Cols: 1000},
		FineChunks:    omfile.Shape{Rows: 10, Cols: 100},
		ScaleFactor:   20,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for values the workloads cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.DataDirectory == "":
		return errors.Wrap(ErrInvalidConfig, "dataDirectory is empty")
	case c.SampleBytes < 4:
		return errors.Wrapf(ErrInvalidConfig, "sampleBytes %d holds no float32", c.SampleBytes)
	case c.SampleColumns < 1:
		return errors.Wrapf(ErrInvalidConfig, "sampleColumns %d", c.SampleColumns)
	case c.CoarseChunks.Rows < 1 || c.CoarseChunks.Cols < 1:
		return errors.Wrapf(ErrInvalidConfig, "coarseChunks %+v", c.CoarseChunks)
	case c.FineChunks.Rows < 1 || c.FineChunks.Cols < 1:
		return errors.Wrapf(ErrInvalidConfig, "fineChunks %+v", c.FineChunks)
	case !(c.ScaleFactor > 0):
		return errors.Wrapf(ErrInvalidConfig, "scaleFactor %v", c.ScaleFactor)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(ErrInvalidConfig, "logLevel %q", c.LogLevel)
	}
	return level, nil
}

// SaveConfig saves the benchmark configuration to a YAML file.
func (c *Config) SaveConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// LoadConfig loads the benchmark configuration from a YAML file. Keys missing
// from the file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/omtool/benchmark"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(configEnv, "")
	t.Setenv(dataDirectoryEnv, "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, benchmark.DefaultConfig(), cfg)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omtool.yaml")
	fileCfg := benchmark.DefaultConfig()
	fileCfg.ReferenceName = "Graviton 3"
	fileCfg.DataDirectory = "/from/file"
	require.NoError(t, fileCfg.SaveConfig(path))

	t.Setenv(configEnv, path)
	t.Setenv(dataDirectoryEnv, "/from/env")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Graviton 3", cfg.ReferenceName)
	assert.Equal(t, "/from/env", cfg.DataDirectory)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(configEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestBenchmarkCmdRejectsNonPositiveTime(t *testing.T) {
	t.Setenv(configEnv, "")
	t.Setenv(dataDirectoryEnv, t.TempDir())

	for _, seconds := range []string{"0", "-3"} {
		var stdout, stderr bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"benchmark", "--time=" + seconds})

		err := cmd.Execute()
		assert.ErrorIs(t, err, benchmark.ErrInvalidBudget)
		assert.Empty(t, stdout.String())
	}
}

func TestBenchmarkCmdFlags(t *testing.T) {
	cmd := newBenchmarkCmd()

	flag := cmd.Flags().Lookup("time")
	require.NotNil(t, flag)
	assert.Equal(t, "t", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestBenchmarkCmdRejectsArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"benchmark", "extra"})

	assert.Error(t, cmd.Execute())
}

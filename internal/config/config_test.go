package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, opts Options) *Config {
	t.Helper()
	if opts.EnvFile == "" {
		opts.EnvFile = filepath.Join(t.TempDir(), "absent.env")
	}
	if opts.SearchPaths == nil {
		opts.SearchPaths = []string{t.TempDir()}
	}
	cfg, err := Load(opts)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, Options{})
	assert.Equal(t, "answer_sheetphi.json", cfg.Paths.AnswerKey)
	assert.Equal(t, "exact", cfg.Scoring.MatchPolicy)
	assert.Equal(t, "standard", cfg.Scoring.TierTable)
	assert.Equal(t, "dataset", cfg.Training.TierTable)
	assert.Equal(t, uint64(42), cfg.Training.Seed)
	assert.Equal(t, 10, cfg.Training.MaxDepth)
	assert.InDelta(t, 0.2, cfg.Training.TestSize, 1e-9)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.True(t, cfg.LLM.Enabled)
	assert.False(t, cfg.Quiz.NonInteractive)
	assert.Empty(t, cfg.File)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phishwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  answer_key: sheets/key.json
scoring:
  match_policy: partial
training:
  max_depth: 4
`), 0o644))

	t.Setenv("PHISHWISE_TRAINING_MAX_DEPTH", "6")
	t.Setenv("PHISHWISE_STORE_DRIVER", "postgres")

	cfg := load(t, Options{SearchPaths: []string{dir}})
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "sheets/key.json", cfg.Paths.AnswerKey)
	assert.Equal(t, "partial", cfg.Scoring.MatchPolicy)
	assert.Equal(t, 6, cfg.Training.MaxDepth)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_NonInteractiveEnv(t *testing.T) {
	t.Setenv("NON_INTERACTIVE", "1")
	cfg := load(t, Options{})
	assert.True(t, cfg.Quiz.NonInteractive)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PHISHWISE_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("PHISHWISE_LOG_LEVEL", "")
	os.Unsetenv("PHISHWISE_LOG_LEVEL")

	cfg := load(t, Options{EnvFile: envFile})
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(Options{
		File:    filepath.Join(t.TempDir(), "missing.yaml"),
		EnvFile: filepath.Join(t.TempDir(), "absent.env"),
	})
	assert.Error(t, err)
}

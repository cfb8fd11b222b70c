package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Console = &buf

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phishwise.log")
	cfg := DefaultConfig()
	cfg.Console = &bytes.Buffer{}
	cfg.File = path

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("quiz completed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"quiz completed"`)
}

func TestNew_BadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)
}

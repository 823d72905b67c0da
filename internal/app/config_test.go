package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/assemble"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codephy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, assemble.DefaultPolicy, cfg.Remote.ConstraintPolicy())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
log_format: json
workers: 8
listen: 127.0.0.1:9090
remote:
  url: https://engine.example.org/socket.io/
  namespace: /models
  timeout: 3s
  policy: reject-proposal
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	assert.Equal(t, "/models", cfg.Remote.Namespace)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, assemble.RejectProposal, cfg.Remote.ConstraintPolicy())
}

func TestLoadConfig_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "colour: blue\n", "failed to parse config file"},
		{"bad level", "log_level: loud\n", "LogLevel"},
		{"bad format", "log_format: xml\n", "LogFormat"},
		{"negative workers", "workers: -1\n", "Workers"},
		{"bad policy", "remote:\n  policy: maybe\n", "Policy"},
		{"bad url", "remote:\n  url: not a url\n", "URL"},
		{"empty listen", "listen: \"\"\n", "Listen"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "node", "tree")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"node":"tree"`)

	buf.Reset()
	newLogger("bogus", "text", &buf).Debug("dropped")
	assert.Empty(t, buf.String())
}

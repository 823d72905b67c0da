package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/compiler"
	"github.com/vk/codephy/internal/testutil"
)

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func TestExecute_Validate(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)

	out, _, err := execute(t, "validate", model)
	require.NoError(t, err)
	assert.Contains(t, out, "valid, 6 nodes")

	bad := writeFile(t, "bad.json", `{"randomVariables": {"a": {"distribution": {"type": "Dirichlet", "parameters": {"alpha": [5, -1, 5, 5]}}}}}`)
	out, _, err = execute(t, "validate", bad)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, out, "ParameterConstraintError")
}

func TestExecute_Compile(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)

	out, _, err := execute(t, "compile", model)
	require.NoError(t, err)
	var summary compiler.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"alignment"}, summary.Partition.Observed)

	out, _, err = execute(t, "compile", "-o", "yaml", model)
	require.NoError(t, err)
	assert.Contains(t, out, "partition:")
}

func TestExecute_Partition(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)
	out, _, err := execute(t, "partition", model)
	require.NoError(t, err)
	assert.Contains(t, out, "observed: alignment")
}

func TestExecute_LogFlags(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)
	_, logs, err := execute(t, "--log-level", "debug", "--log-format", "json", "validate", model)
	require.NoError(t, err)
	assert.Contains(t, logs, `"level":"DEBUG"`)
}

func TestExecute_ConfigFile(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)
	cfg := writeFile(t, "codephy.yaml", "log_level: debug\nlog_format: json\n")

	_, logs, err := execute(t, "--config", cfg, "validate", model)
	require.NoError(t, err)
	assert.Contains(t, logs, `"level":"DEBUG"`)

	_, logs, err = execute(t, "--config", cfg, "--log-level", "error", "validate", model)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestExecute_UsageErrors(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)
	badCfg := writeFile(t, "codephy.yaml", "log_level: loud\n")

	testCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--this-is-not-a-valid-flag"}},
		{"unknown command", []string{"frobnicate"}},
		{"missing file argument", []string{"validate"}},
		{"extra argument", []string{"validate", model, model}},
		{"bad log level", []string{"--log-level", "loud", "validate", model}},
		{"bad output format", []string{"compile", "-o", "xml", model}},
		{"bad config file", []string{"--config", badCfg, "validate", model}},
		{"bad policy", []string{"emit", "--url", "http://localhost:3000", "--policy", "maybe", model}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			assert.Equal(t, ExitUsage, exitCode(t, err))
		})
	}
}

func TestExecute_EmitRequiresURL(t *testing.T) {
	model := writeFile(t, "model.json", testutil.PhyloModel)
	_, _, err := execute(t, "emit", model)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "URL is required")
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	for _, sub := range []string{"validate", "compile", "partition", "serve", "watch", "emit"} {
		assert.Contains(t, out, sub)
	}
}

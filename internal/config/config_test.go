package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/address"
)

const jsonDoc = `{
  "model": "hky-yule",
  "codephyVersion": "0.1",
  "randomVariables": {
    "zeta": {"distribution": {"type": "LogNormal", "generates": "REAL", "parameters": {"meanlog": 1, "sdlog": 0.5}}},
    "alpha": {"distribution": {"type": "Normal", "generates": "REAL", "parameters": {"mean": 0, "sigma": 1}}},
    "alpha": {"distribution": {"type": "Normal", "generates": "REAL", "parameters": {"mean": 1, "sigma": 1}}}
  },
  "deterministicFunctions": {
    "Q": {"function": "HKY", "arguments": {"kappa": {"variable": "zeta"}, "baseFrequencies": [0.25, 0.25, 0.25, 0.25]}}
  },
  "constraints": [{"type": "lessThan", "left": "alpha", "right": "zeta"}],
  "metadata": {"author": "someone"}
}`

const yamlDoc = `
model: hky-yule
randomVariables:
  zeta:
    distribution:
      type: LogNormal
      generates: REAL
      parameters: {meanlog: 1, sdlog: 0.5}
  alpha:
    distribution:
      type: Normal
      parameters: {mean: 0, sigma: 1}
deterministicFunctions:
  Q:
    function: HKY
    arguments:
      kappa: {variable: zeta}
      baseFrequencies: [0.25, 0.25, 0.25, 0.25]
constraints:
  - {type: lessThan, left: alpha, right: zeta}
`

func names(e Entries) []string {
	out := make([]string, len(e))
	for i, entry := range e {
		out[i] = entry.Name
	}
	return out
}

func TestJSONLoader_PreservesOrderAndDuplicates(t *testing.T) {
	doc, src, err := JSONLoader{}.Parse(context.Background(), "model.json", []byte(jsonDoc))
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, JSON, src.Format)

	assert.Equal(t, "hky-yule", doc.Model)
	assert.Equal(t, []string{"zeta", "alpha", "alpha"}, names(doc.RandomVariables))
	assert.Equal(t, []string{"Q"}, names(doc.DeterministicFunctions))
	require.Len(t, doc.Constraints, 1)
	assert.Equal(t, map[string]any{"author": "someone"}, doc.Metadata)

	zeta, ok := doc.RandomVariables.Get("zeta")
	require.True(t, ok)
	params := zeta.Raw.(map[string]any)["distribution"].(map[string]any)["parameters"].(map[string]any)
	assert.Equal(t, json.Number("1"), params["meanlog"])
}

func TestJSONLoader_NullCollections(t *testing.T) {
	doc, _, err := JSONLoader{}.Parse(context.Background(), "m.json", []byte(`{"randomVariables": null}`))
	require.NoError(t, err)
	assert.Empty(t, doc.RandomVariables)
	assert.Empty(t, doc.DeterministicFunctions)
}

func TestJSONLoader_Errors(t *testing.T) {
	_, _, err := JSONLoader{}.Parse(context.Background(), "m.json", []byte(`{"randomVariables": [1, 2]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m.json")

	_, _, err = JSONLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestEntries_MarshalJSON(t *testing.T) {
	e := Entries{{Name: "b", Raw: 1.0}, {Name: "a", Raw: "x"}}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x"}`, string(out))
}

func TestYAMLLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	doc, src, err := YAMLLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, YAML, src.Format)
	assert.Equal(t, []string{"zeta", "alpha"}, names(doc.RandomVariables))
	assert.Equal(t, []string{"Q"}, names(doc.DeterministicFunctions))

	q, _ := doc.DeterministicFunctions.Get("Q")
	args := q.Raw.(map[string]any)["arguments"].(map[string]any)
	assert.Equal(t, map[string]any{"variable": "zeta"}, args["kappa"])

	_, _, err = YAMLLoader{}.Parse(context.Background(), "bad.yaml", []byte("randomVariables: [1]"))
	require.Error(t, err)
}

func TestFormats(t *testing.T) {
	f, ok := FormatFromPath("a/b/model.YML")
	require.True(t, ok)
	assert.Equal(t, YAML, f)
	_, ok = FormatFromPath("model.txt")
	assert.False(t, ok)

	f, ok = ParseFormat("HCL")
	require.True(t, ok)
	assert.Equal(t, HCL, f)
}

func TestSource_RangeOf(t *testing.T) {
	var nilSource *Source
	assert.Nil(t, nilSource.RangeOf(address.Root("x")))
	assert.Nil(t, nilSource.Files())
}

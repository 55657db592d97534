package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestYAMLLoad(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `iterations_default: 3
grounding:
  max_results: 7
output_folder: out
`)

	var a YAMLAdapter

	v, found, err := a.Load(path, "iterations_default")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3.0, v)

	v, found, err = a.Load(path, "grounding.max_results")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7.0, v)

	// Absent leaf and absent intermediate segment both yield absent, not error.
	_, found, err = a.Load(path, "grounding.missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = a.Load(path, "nothing.here.at_all")
	require.NoError(t, err)
	assert.False(t, found)

	// Non-numeric leaf is absent for a numeric parameter.
	_, found, err = a.Load(path, "output_folder")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestYAMLLoadMissingFile(t *testing.T) {
	var a YAMLAdapter
	_, found, err := a.Load(filepath.Join(t.TempDir(), "nope.yaml"), "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestYAMLLoadMalformed(t *testing.T) {
	path := writeTestFile(t, "bad.yaml", "iterations: [unclosed\n")

	var a YAMLAdapter
	_, _, err := a.Load(path, "iterations")
	var formatErr *StoreFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, path, formatErr.Path)
}

func TestYAMLWritePreservesOrderAndComments(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `# pipeline settings
iterations_default: 3
iterations:
  fpf: 1
  gptr: 2
output_folder: out
`)

	var a YAMLAdapter
	require.NoError(t, a.Write(path, "iterations_default", int64(5)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# pipeline settings")
	assert.Contains(t, text, "iterations_default: 5")
	assert.Contains(t, text, "output_folder: out")

	// Keys keep their insertion order.
	iDefault := strings.Index(text, "iterations_default")
	iMap := strings.Index(text, "iterations:")
	iOut := strings.Index(text, "output_folder")
	assert.Less(t, iDefault, iMap)
	assert.Less(t, iMap, iOut)
}

func TestYAMLWriteCreatesIntermediateMappings(t *testing.T) {
	path := writeTestFile(t, "forge.yaml", "provider: openai\n")

	var a YAMLAdapter
	require.NoError(t, a.Write(path, "google.max_tokens", int64(1500)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "provider: openai")
	assert.Contains(t, text, "google:")
	assert.Contains(t, text, "  max_tokens: 1500")

	v, found, err := a.Load(path, "google.max_tokens")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1500.0, v)
}

func TestYAMLWriteCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.yaml")

	var a YAMLAdapter
	require.NoError(t, a.Write(path, "iterations_default", int64(2)))

	v, found, err := a.Load(path, "iterations_default")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2.0, v)
}

func TestYAMLWriteNumbersAreNative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nums.yaml")

	var a YAMLAdapter
	require.NoError(t, a.Write(path, "count", int64(7)))
	require.NoError(t, a.Write(path, "fraction", 0.73))
	require.NoError(t, a.Write(path, "whole", 1.0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "count: 7")
	assert.Contains(t, text, "fraction: 0.73")
	// Integral floats keep a decimal point so they stay floats on re-parse.
	assert.Contains(t, text, "whole: 1.0")
	assert.NotContains(t, text, `"7"`)
	assert.NotContains(t, text, `'7'`)
}

func TestYAMLWriteMalformed(t *testing.T) {
	path := writeTestFile(t, "bad.yaml", "key: [unclosed\n")

	var a YAMLAdapter
	err := a.Write(path, "key", int64(1))
	var formatErr *StoreFormatError
	require.ErrorAs(t, err, &formatErr)
}

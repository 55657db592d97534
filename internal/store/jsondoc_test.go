package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskJSON = `{
  "query": "café résumé",
  "max_sections": 3,
  "publish_formats": {
    "markdown": true,
    "pdf": false
  },
  "model": "gpt-4o"
}
`

func TestJSONLoad(t *testing.T) {
	path := writeTestFile(t, "task.json", taskJSON)

	var a JSONAdapter

	v, found, err := a.Load(path, "max_sections")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3.0, v)

	_, found, err = a.Load(path, "no_such_key")
	require.NoError(t, err)
	assert.False(t, found)

	// Non-numeric value is absent for a numeric parameter.
	_, found, err = a.Load(path, "model")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONLoadMissingFile(t *testing.T) {
	var a JSONAdapter
	_, found, err := a.Load(filepath.Join(t.TempDir(), "nope.json"), "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONWriteEditsInPlace(t *testing.T) {
	path := writeTestFile(t, "task.json", taskJSON)

	var a JSONAdapter
	require.NoError(t, a.Write(path, "max_sections", int64(7)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	// Only the addressed literal changed; everything else, including the
	// non-ASCII text, is byte-identical.
	assert.Equal(t, strings.Replace(taskJSON, `"max_sections": 3`, `"max_sections": 7`, 1), text)
	assert.Contains(t, text, "café résumé")
	assert.NotContains(t, text, `\u`)
}

func TestJSONWriteCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.json")

	var a JSONAdapter
	require.NoError(t, a.Write(path, "max_sections", int64(4)))

	v, found, err := a.Load(path, "max_sections")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4.0, v)
}

func TestJSONWriteMalformed(t *testing.T) {
	path := writeTestFile(t, "bad.json", `{"max_sections": }`)

	var a JSONAdapter
	err := a.Write(path, "max_sections", int64(1))
	var formatErr *StoreFormatError
	require.ErrorAs(t, err, &formatErr)
}

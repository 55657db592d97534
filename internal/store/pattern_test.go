package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultsPy = `from .base import BaseConfig

DEFAULT_CONFIG: BaseConfig = {
    "RETRIEVER": "tavily",
    "FAST_TOKEN_LIMIT": 3000,  # tokens for the fast model
    "SMART_TOKEN_LIMIT": 6000,
    "TEMPERATURE": 0.4,
    "CURATE_SOURCES": False,
}
`

func testAnchors() []Anchor {
	return []Anchor{
		{Key: "FAST_TOKEN_LIMIT", Kind: ValueInt},
		{Key: "SMART_TOKEN_LIMIT", Kind: ValueInt},
		{Key: "TEMPERATURE", Kind: ValueFloat},
	}
}

func TestPatternLoad(t *testing.T) {
	path := writeTestFile(t, "defaults.py", defaultsPy)

	p := NewPatternAdapter(testAnchors())
	values, err := p.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, values["FAST_TOKEN_LIMIT"])
	assert.Equal(t, 6000.0, values["SMART_TOKEN_LIMIT"])
	assert.Equal(t, 0.4, values["TEMPERATURE"])
}

func TestPatternLoadMissingFile(t *testing.T) {
	p := NewPatternAdapter(testAnchors())
	values, err := p.Load(filepath.Join(t.TempDir(), "nope.py"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestPatternApplyPreservesSurroundings(t *testing.T) {
	p := NewPatternAdapter(testAnchors())

	updated, found, err := p.Apply(defaultsPy, "FAST_TOKEN_LIMIT", 2500)
	require.NoError(t, err)
	require.True(t, found)

	// Only the numeric literal changed; the trailing comment and every other
	// line are byte-identical.
	assert.Equal(t, strings.Replace(defaultsPy, `"FAST_TOKEN_LIMIT": 3000,  # tokens`, `"FAST_TOKEN_LIMIT": 2500,  # tokens`, 1), updated)
	assert.Contains(t, updated, "# tokens for the fast model")
	assert.Contains(t, updated, `"RETRIEVER": "tavily",`)
}

func TestPatternApplyMissLeavesTextUntouched(t *testing.T) {
	p := NewPatternAdapter([]Anchor{{Key: "NO_SUCH_KEY", Kind: ValueInt}})

	updated, found, err := p.Apply(defaultsPy, "NO_SUCH_KEY", 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, defaultsPy, updated)
}

func TestPatternApplyUndeclaredKey(t *testing.T) {
	p := NewPatternAdapter(testAnchors())
	_, _, err := p.Apply(defaultsPy, "UNDECLARED", 1)
	assert.Error(t, err)
}

func TestPatternWriteFileMissDoesNotAbortSiblings(t *testing.T) {
	// SMART_TOKEN_LIMIT is absent from this file; FAST_TOKEN_LIMIT is present.
	content := strings.Replace(defaultsPy, "    \"SMART_TOKEN_LIMIT\": 6000,\n", "", 1)
	path := writeTestFile(t, "defaults.py", content)

	p := NewPatternAdapter(testAnchors())
	missing, err := p.WriteFile(path, map[string]float64{
		"FAST_TOKEN_LIMIT":  2000,
		"SMART_TOKEN_LIMIT": 9000,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SMART_TOKEN_LIMIT"}, missing)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FAST_TOKEN_LIMIT": 2000,`)
	assert.NotContains(t, string(data), "SMART_TOKEN_LIMIT")
}

func TestPatternWriteFileTemperature(t *testing.T) {
	path := writeTestFile(t, "defaults.py", defaultsPy)

	p := NewPatternAdapter(testAnchors())
	missing, err := p.WriteFile(path, map[string]float64{"TEMPERATURE": 0.73})
	require.NoError(t, err)
	assert.Empty(t, missing)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"TEMPERATURE": 0.73,`)
}

func TestPatternWriteFileMissingFile(t *testing.T) {
	p := NewPatternAdapter(testAnchors())
	_, err := p.WriteFile(filepath.Join(t.TempDir(), "nope.py"), map[string]float64{"TEMPERATURE": 0.5})

	var ioErr *StoreIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		name string
		kind ValueKind
		v    float64
		want string
	}{
		{"int", ValueInt, 3000, "3000"},
		{"int rounds", ValueInt, 41.6, "42"},
		{"float fraction", ValueFloat, 0.73, "0.73"},
		{"float integral collapses", ValueFloat, 1.0, "1"},
		{"float zero", ValueFloat, 0.0, "0"},
		{"float single decimal pads", ValueFloat, 0.7, "0.70"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLiteral(tt.kind, tt.v))
		})
	}
}

package preset

import (
	"os"
	"path/filepath"
	"testing"

	"pipetune/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "presets.yaml"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	set := registry.ParameterSet{
		"iterations_default": 5,
		"TEMPERATURE":        73,
		"max_sections":       4,
	}

	require.NoError(t, s.Save("fast-draft", set))

	got, err := s.Load("fast-draft")
	require.NoError(t, err)
	assert.Equal(t, set, got)
}

func TestSaveClonesTheSet(t *testing.T) {
	s := newTestStore(t)
	set := registry.ParameterSet{"iterations_default": 5}

	require.NoError(t, s.Save("snap", set))
	set["iterations_default"] = 99

	got, err := s.Load("snap")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got["iterations_default"], "later mutations must not leak into the preset")
}

func TestSaveOverwritesExistingName(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("draft", registry.ParameterSet{"TOTAL_WORDS": 800}))
	require.NoError(t, s.Save("draft", registry.ParameterSet{"TOTAL_WORDS": 2000}))

	got, err := s.Load("draft")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got["TOTAL_WORDS"])

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, names)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Save("", registry.ParameterSet{}))
}

func TestLoadUnknownName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("nope")
	assert.ErrorContains(t, err, `"nope" not found`)
}

func TestListSortedAndEmptyWithoutFile(t *testing.T) {
	s := newTestStore(t)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save("zeta", registry.ParameterSet{}))
	require.NoError(t, s.Save("alpha", registry.ParameterSet{}))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("keep", registry.ParameterSet{"MAX_ITERATIONS": 3}))
	require.NoError(t, s.Save("drop", registry.ParameterSet{"MAX_ITERATIONS": 7}))

	require.NoError(t, s.Delete("drop"))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names)

	assert.ErrorContains(t, s.Delete("drop"), "not found")
}

func TestMalformedPresetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0644))
	s := NewStore(path)

	_, err := s.List()
	assert.ErrorContains(t, err, "unparsable")
}

// Package preset persists named snapshots of the parameter model, so a tuned
// configuration can be recalled later without re-reading the stores.
package preset

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"pipetune/internal/registry"
	"pipetune/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Store reads and writes presets.yaml, a mapping of preset name to parameter
// values.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a preset store backed by the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) readAll() (map[string]registry.ParameterSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]registry.ParameterSet{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	presets := map[string]registry.ParameterSet{}
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("unparsable presets file %s: %w", s.path, err)
	}
	return presets, nil
}

// Save stores set under name, overwriting any previous preset of that name.
func (s *Store) Save(name string, set registry.ParameterSet) error {
	if name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.readAll()
	if err != nil {
		return err
	}
	presets[name] = set.Clone()

	data, err := yaml.Marshal(presets)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	logging.Info("Preset", "Saved preset %q to %s", name, s.path)
	return nil
}

// Load returns the preset stored under name.
func (s *Store) Load(name string) (registry.ParameterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.readAll()
	if err != nil {
		return nil, err
	}
	set, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}
	return set, nil
}

// List returns all preset names, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.readAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the preset stored under name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := presets[name]; !ok {
		return fmt.Errorf("preset %q not found", name)
	}
	delete(presets, name)

	data, err := yaml.Marshal(presets)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

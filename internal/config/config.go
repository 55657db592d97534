// Package config loads pipetune's own project-layout configuration: where the
// four parameter stores live, which interpreter runs the generator, and the
// generator script itself. A missing pipetune.yaml falls back to the default
// layout; a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pipetune/pkg/logging"

	"gopkg.in/yaml.v3"
)

const configFileName = "pipetune.yaml"

// StorePaths names the four configuration stores, relative to the project
// root unless absolute.
type StorePaths struct {
	Pipeline   string `yaml:"pipeline,omitempty"`   // pipeline config.yaml
	Forge      string `yaml:"forge,omitempty"`      // prompt-forge default_config.yaml
	Researcher string `yaml:"researcher,omitempty"` // researcher defaults.py
	Agents     string `yaml:"agents,omitempty"`     // multi-agent task.json
}

// ProjectConfig is the top-level configuration structure for pipetune.
type ProjectConfig struct {
	Root            string     `yaml:"root,omitempty"`        // project directory, also the generator's cwd
	Interpreter     string     `yaml:"interpreter,omitempty"` // interpreter used to run the generator
	GeneratorScript string     `yaml:"generatorScript,omitempty"`
	Stores          StorePaths `yaml:"stores,omitempty"`
}

// GetDefaultConfig returns the default configuration, matching the standard
// pipeline checkout layout.
func GetDefaultConfig() ProjectConfig {
	return ProjectConfig{
		Root:            ".",
		Interpreter:     "python3",
		GeneratorScript: "generate.py",
		Stores: StorePaths{
			Pipeline:   "config.yaml",
			Forge:      filepath.Join("forge", "default_config.yaml"),
			Researcher: filepath.Join("researcher", "config", "defaults.py"),
			Agents:     filepath.Join("agents", "task.json"),
		},
	}
}

// LoadConfig loads configuration from pipetune.yaml in the given directory,
// layered over the defaults. An absent file yields the defaults.
func LoadConfig(dir string) (ProjectConfig, error) {
	cfg := GetDefaultConfig()
	if dir != "" {
		cfg.Root = dir
	}

	configFilePath := filepath.Join(cfg.Root, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No %s found at %s, using defaults", configFileName, configFilePath)
			return cfg, nil
		}
		return ProjectConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	if dir != "" {
		cfg.Root = dir
	}
	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// resolve anchors a store path at the project root unless it is absolute.
func (c ProjectConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// PipelinePath returns the absolute-or-root-relative path of the pipeline
// config.yaml store.
func (c ProjectConfig) PipelinePath() string { return c.resolve(c.Stores.Pipeline) }

// ForgePath returns the path of the forge default_config.yaml store.
func (c ProjectConfig) ForgePath() string { return c.resolve(c.Stores.Forge) }

// ResearcherPath returns the path of the researcher defaults.py store.
func (c ProjectConfig) ResearcherPath() string { return c.resolve(c.Stores.Researcher) }

// AgentsPath returns the path of the multi-agent task.json store.
func (c ProjectConfig) AgentsPath() string { return c.resolve(c.Stores.Agents) }

// GeneratorPath returns the path of the generator script.
func (c ProjectConfig) GeneratorPath() string { return c.resolve(c.GeneratorScript) }

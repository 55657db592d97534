package cmd

import (
	"errors"
	"fmt"
	"os"

	"pipetune/internal/config"
	"pipetune/internal/engine"
	"pipetune/internal/registry"
	"pipetune/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodePartialWrite indicates a write-back completed with per-parameter failures.
	ExitCodePartialWrite = 2
)

// rootConfigPath is the project directory holding pipetune.yaml and the
// configuration stores. Defaults to the current directory.
var rootConfigPath string

// rootDebug enables verbose logging across the application.
var rootDebug bool

// rootCmd represents the base command for the pipetune application.
var rootCmd = &cobra.Command{
	Use:   "pipetune",
	Short: "Tune pipeline parameters across their config stores and run the generator",
	Long: `pipetune keeps a declared set of numeric pipeline parameters in sync with
the config files that persist them (YAML, JSON and the researcher's
defaults.py source file), backing each file up once per session before the
first write, and launches the generator process with live output streaming.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// partialWriteError signals that some parameter writes failed; the command
// still completed and produced a full report.
type partialWriteError struct {
	failed int
}

func (e *partialWriteError) Error() string {
	return fmt.Sprintf("%d parameter write(s) failed", e.failed)
}

// childExitError carries the generator's non-zero exit code up to Execute so
// the CLI exit status mirrors the child's.
type childExitError struct {
	code int
}

func (e *childExitError) Error() string {
	return fmt.Sprintf("generator exited with code %d", e.code)
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "pipetune version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type,
// providing semantic exit codes for scripting.
func getExitCode(err error) int {
	var child *childExitError
	if errors.As(err, &child) {
		return child.code
	}

	var partial *partialWriteError
	if errors.As(err, &partial) {
		return ExitCodePartialWrite
	}

	return ExitCodeError
}

// buildEngine loads the project config and wires the synchronization engine
// used by most commands.
func buildEngine() (*engine.Engine, *registry.Registry, config.ProjectConfig, error) {
	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return nil, nil, config.ProjectConfig{}, fmt.Errorf("failed to load project config: %w", err)
	}
	reg := registry.Default()
	eng := engine.New(reg, cfg)
	logging.Debug("CLI", "Engine targets: %s", eng.Describe())
	return eng, reg, cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "project directory containing pipetune.yaml and the config stores (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newPresetCmd())
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"pipetune/internal/launch"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	runSetFlags    []string
	runMasterLevel float64
	runInputFile   string
	runQuiet       bool
)

// newRunCmd creates the command that writes the model back and then launches
// the generator under supervision.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write parameters to the config stores, then run the generator",
		Long: `Performs a full write-back and then launches the generator process in the
project directory. Per-parameter write failures are reported but do not block
the launch, since the remaining parameters were persisted. The generator's
output is streamed line by line as it arrives, and pipetune's exit code
mirrors the generator's.`,
		Args: cobra.NoArgs,
		RunE: runGenerator,
	}

	cmd.Flags().StringArrayVar(&runSetFlags, "set", nil, "override a parameter as KEY=VALUE (repeatable)")
	cmd.Flags().Float64Var(&runMasterLevel, "master", 0, "position every parameter at this fraction (0-1) of its range before overrides")
	cmd.Flags().StringVar(&runInputFile, "input", "", "run the generator for a single input file")
	cmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress generator output, show a spinner instead")
	return cmd
}

func runGenerator(cmd *cobra.Command, args []string) error {
	eng, reg, cfg, err := buildEngine()
	if err != nil {
		return err
	}

	set := eng.LoadAll()
	if cmd.Flags().Changed("master") {
		reg.ApplyMasterLevel(set, runMasterLevel)
	}
	if err := applyOverrides(reg, set, runSetFlags); err != nil {
		return err
	}

	report := eng.WriteBack(set)
	renderReport(cmd.OutOrStdout(), report)
	// A partial write is not a reason to block the launch; the report above
	// tells the user what did not land.

	spec := launch.Spec{
		Command: cfg.Interpreter,
		Args:    []string{"-u", cfg.GeneratorPath()},
		Dir:     cfg.Root,
	}
	if runInputFile != "" {
		spec.ExtraEnv = map[string]string{"SINGLE_INPUT_FILE": runInputFile}
	}

	var s *spinner.Spinner
	onLine := func(line launch.OutputLine) {
		if line.Stream == launch.StreamStderr {
			fmt.Fprintln(os.Stderr, line.Text)
			return
		}
		fmt.Fprintln(os.Stdout, line.Text)
	}
	if runQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Running generator..."
		s.Start()
		onLine = nil
	}

	sup := launch.NewSupervisor()
	handle, err := sup.Launch(cmd.Context(), spec, onLine)
	if err != nil {
		if s != nil {
			s.Stop()
		}
		return err
	}

	status := handle.Wait()
	if s != nil {
		s.Stop()
	}

	if status.Err != nil {
		return fmt.Errorf("generator did not run to completion: %w", status.Err)
	}
	if status.ExitCode != 0 {
		fmt.Fprintf(os.Stderr, "%s\n", text.FgRed.Sprintf("Generator exited with code %d", status.ExitCode))
		return &childExitError{code: status.ExitCode}
	}

	fmt.Fprintln(cmd.OutOrStdout(), text.FgGreen.Sprint("Generator finished successfully"))
	return nil
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"pipetune/internal/registry"

	"github.com/spf13/cobra"
)

var (
	writeSetFlags    []string
	writeMasterLevel float64
)

// newWriteCmd creates the command that writes the parameter model back to all
// stores.
func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the parameter model back to all config stores",
		Long: `Loads the current model, applies any --master and --set overrides, backs
each target file up once per session, and writes every parameter to its
store. Each write is independent: one failure is reported but never blocks
the others. The command exits non-zero when any write failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, reg, _, err := buildEngine()
			if err != nil {
				return err
			}

			set := eng.LoadAll()
			if cmd.Flags().Changed("master") {
				reg.ApplyMasterLevel(set, writeMasterLevel)
			}
			if err := applyOverrides(reg, set, writeSetFlags); err != nil {
				return err
			}

			report := eng.WriteBack(set)
			renderReport(cmd.OutOrStdout(), report)
			if failed := report.Failed(); len(failed) > 0 {
				return &partialWriteError{failed: len(failed)}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&writeSetFlags, "set", nil, "override a parameter as KEY=VALUE (repeatable)")
	cmd.Flags().Float64Var(&writeMasterLevel, "master", 0, "position every parameter at this fraction (0-1) of its range before overrides")
	return cmd
}

// applyOverrides parses KEY=VALUE flags into the set. Values are clamped to
// the parameter's domain; unknown keys are an error so typos fail loudly.
func applyOverrides(reg *registry.Registry, set registry.ParameterSet, overrides []string) error {
	for _, o := range overrides {
		key, raw, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected KEY=VALUE", o)
		}
		p, declared := reg.Get(key)
		if !declared {
			return fmt.Errorf("unknown parameter %q", key)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, raw)
		}
		set[key] = p.Clamp(v)
	}
	return nil
}

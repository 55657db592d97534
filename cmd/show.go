package cmd

import (
	"github.com/spf13/cobra"
)

// newShowCmd creates the command that loads all parameters from their stores
// and prints the current model.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load all parameters from the config stores and display them",
		Long: `Reads every declared parameter from its backing store, applying the
declared default when a value is absent and clamping out-of-range values to
the parameter's domain. A missing or unparsable store degrades only its own
parameters; the command never fails because one file is broken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, reg, _, err := buildEngine()
			if err != nil {
				return err
			}
			set := eng.LoadAll()
			renderParameters(cmd.OutOrStdout(), reg, set)
			return nil
		},
	}
}

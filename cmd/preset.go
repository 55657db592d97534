package cmd

import (
	"fmt"
	"path/filepath"

	"pipetune/internal/preset"

	"github.com/spf13/cobra"
)

const presetsFileName = "presets.yaml"

// newPresetCmd creates the preset command group: named snapshots of the
// parameter model, stored in presets.yaml beside the project config.
func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Save, apply and list named parameter presets",
	}
	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetLoadCmd())
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetDeleteCmd())
	return cmd
}

func newPresetSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Snapshot the current store values as a named preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, cfg, err := buildEngine()
			if err != nil {
				return err
			}
			ps := preset.NewStore(filepath.Join(cfg.Root, presetsFileName))
			if err := ps.Save(args[0], eng.LoadAll()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", args[0])
			return nil
		},
	}
}

func newPresetLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load NAME",
		Short: "Apply a named preset by writing it back to the config stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, reg, cfg, err := buildEngine()
			if err != nil {
				return err
			}
			ps := preset.NewStore(filepath.Join(cfg.Root, presetsFileName))
			set, err := ps.Load(args[0])
			if err != nil {
				return err
			}

			report := eng.WriteBack(reg.ClampSet(set))
			renderReport(cmd.OutOrStdout(), report)
			if failed := report.Failed(); len(failed) > 0 {
				return &partialWriteError{failed: len(failed)}
			}
			return nil
		},
	}
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := buildEngine()
			if err != nil {
				return err
			}
			ps := preset.NewStore(filepath.Join(cfg.Root, presetsFileName))
			names, err := ps.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := buildEngine()
			if err != nil {
				return err
			}
			ps := preset.NewStore(filepath.Join(cfg.Root, presetsFileName))
			if err := ps.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", args[0])
			return nil
		},
	}
}

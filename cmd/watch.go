package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"pipetune/internal/watcher"

	"github.com/spf13/cobra"
)

// newWatchCmd creates the command that re-displays the parameter model
// whenever another program edits one of the config stores.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the config stores and re-display parameters on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, reg, _, err := buildEngine()
			if err != nil {
				return err
			}

			renderParameters(cmd.OutOrStdout(), reg, eng.LoadAll())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := watcher.NewStoreWatcher(eng.StorePaths(), 500*time.Millisecond)
			changes := make(chan watcher.Event, 16)
			if err := w.Start(ctx, changes); err != nil {
				return fmt.Errorf("failed to start store watcher: %w", err)
			}
			defer w.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-changes:
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s changed:\n", ev.Path)
					renderParameters(cmd.OutOrStdout(), reg, eng.LoadAll())
				}
			}
		},
	}
}

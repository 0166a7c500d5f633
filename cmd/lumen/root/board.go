package root

import (
	"context"

	"github.com/spf13/cobra"

	"lumen/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, a, cmd.OutOrStdout())
		},
	}

	return cmd
}

package root

import (
	"context"

	"github.com/spf13/cobra"

	"questvault/internal/engine"
	"questvault/internal/tui"
)

func newBoardCmd() *cobra.Command {
	var cred engine.ViewingCredential

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, cred, blockTime, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cred.Address, "address", "", "Admin address, to show escrow")
	cmd.Flags().StringVar(&cred.Key, "key", "", "Admin viewing key, to show escrow")
	return cmd
}

package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questvault/internal/storage"
	"questvault/internal/ui"
)

func newOutboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect and reconcile queued outbound effects",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List outbound effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.ListOutbox(ctx, storage.OutboxStatus(status))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBox, "Outbox"))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s [%s] %s", ui.EffectIcon(string(e.Effect.Kind)), ui.OutboxStatus(string(e.Status)), describeEffect(e.Effect))
				if e.Reason != "" {
					line += " " + ui.Bad.Render(e.Reason)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status (queued|delivered|failed)")

	var failed bool
	var reason string
	ack := &cobra.Command{
		Use:   "ack <effect-id>",
		Short: "Record the delivery outcome of an effect (owner only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("effect id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			call, err := currentCall()
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ReconcileEffect(ctx, call, args[0], !failed, reason)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Effect reconciled", res)
			return nil
		},
	}
	ack.Flags().BoolVar(&failed, "failed", false, "Mark the effect as failed instead of delivered")
	ack.Flags().StringVar(&reason, "reason", "", "Failure reason")

	cmd.AddCommand(list, ack)
	return cmd
}

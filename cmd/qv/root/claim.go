package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"questvault/internal/engine"
)

func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <asset-id>...",
		Short: "Claim assets whose staking period has elapsed",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("at least one asset id is required")
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

			res, err := svc.Claim(ctx, call, args)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Claimed", res)
			return nil
		},
	}
}

func newRewardBackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reward-back <amount> <address>",
		Short: "Send reward tokens held by the engine to an address (owner only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("amount and address are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			amount, err := engine.ParseAmount(args[0])
			if err != nil {
				return err
			}
			call, err := currentCall()
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.SendRewardBack(ctx, call, amount, args[1])
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Reward sent", res)
			return nil
		},
	}
}

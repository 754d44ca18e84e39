package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"questvault/internal/engine"
)

func newDepositCmd() *cobra.Command {
	var owner string
	var questID int64

	cmd := &cobra.Command{
		Use:   "deposit <asset-id>...",
		Short: "Record assets received by the custody collaborator (custody only)",
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

			var msg []byte
			if cmd.Flags().Changed("quest") {
				msg = engine.EncodeSelector(questID)
			}
			res, err := svc.DepositBatch(ctx, call, owner, args, msg)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Assets escrowed", res)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Address that staked the assets")
	cmd.Flags().Int64VarP(&questID, "quest", "q", 0, "Quest to join")
	return cmd
}

func newReturnCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "return <asset-id>",
		Short: "Force-return one escrowed asset to its staker (owner only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("asset id is required")
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

			res, err := svc.ReturnAsset(ctx, call, args[0], owner)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Asset returned", res)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Address whose collection holds the asset")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

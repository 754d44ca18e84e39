package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"questvault/internal/config"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup <file.yaml>",
		Short: "Configure the engine once; the caller becomes the owner",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("setup file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnv()
			if err != nil {
				return err
			}
			in, err := config.LoadSetupFile(args[0], env.SelfAddress)
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

			res, err := svc.Setup(ctx, call, in)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Engine configured", res)
			return nil
		},
	}
	return cmd
}

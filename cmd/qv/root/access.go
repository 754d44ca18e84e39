package root

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"questvault/internal/engine"
	"questvault/internal/ui"
)

func newViewingKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewing-key",
		Short: "Manage viewing credentials",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <secret>",
		Short: "Store a viewing credential for the caller (the owner sets the admin slot)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("secret is required")
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

			res, err := svc.SetViewingCredential(ctx, call, args[0])
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Viewing key stored", res)
			return nil
		},
	})
	return cmd
}

func newPermitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permit",
		Short: "Issue and revoke query permits",
	}
	cmd.AddCommand(newPermitKeygenCmd(), newPermitSignCmd(), newPermitRevokeCmd())
	return cmd
}

func newPermitKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing seed and print its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := make([]byte, ed25519.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				return err
			}
			priv := ed25519.NewKeyFromSeed(seed)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Seed", hex.EncodeToString(seed)))
			fmt.Fprintln(out, ui.LabelValue("Address", engine.AddressFromPublicKey(priv.Public().(ed25519.PublicKey))))
			return nil
		},
	}
}

func parseSeed(raw string) (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.New("seed must be 32 bytes of hex")
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func newPermitSignCmd() *cobra.Command {
	var seed, name, target string
	var ttl time.Duration
	var perms []string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a permit for this engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := parseSeed(seed)
			if err != nil {
				return err
			}
			if target == "" {
				env, err := loadEnv()
				if err != nil {
					return err
				}
				target = env.SelfAddress
			}
			token, err := engine.SignPermit(priv, name, []string{target}, perms, blockTime(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "Hex signing seed from 'qv permit keygen'")
	cmd.Flags().StringVar(&name, "name", "default", "Permit name (used for revocation)")
	cmd.Flags().StringVar(&target, "target", "", "Engine address the permit is valid for (defaults to $QV_SELF_ADDRESS)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Permit lifetime (0 means no expiry)")
	cmd.Flags().StringSliceVar(&perms, "permission", []string{engine.PermissionOwner}, "Granted permissions")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}

func newPermitRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <name>",
		Short: "Revoke one of the caller's permits by name",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("permit name is required")
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

			res, err := svc.RevokePermit(ctx, call, args[0])
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Permit revoked", res)
			return nil
		},
	}
}

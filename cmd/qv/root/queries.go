package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"questvault/internal/engine"
	"questvault/internal/storage"
	"questvault/internal/ui"
)

// credentialFlags binds --address/--key for admin queries.
func credentialFlags(cmd *cobra.Command, cred *engine.ViewingCredential) {
	cmd.Flags().StringVar(&cred.Address, "address", "", "Address the viewing key belongs to")
	cmd.Flags().StringVar(&cred.Key, "key", "", "Viewing key")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("key")
}

func permitFlag(cmd *cobra.Command, permit *string) {
	cmd.Flags().StringVar(permit, "permit", "", "Signed permit from 'qv permit sign'")
	_ = cmd.MarkFlagRequired("permit")
}

func pageFlags(cmd *cobra.Command, page, size *int) {
	cmd.Flags().IntVar(page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(size, "size", 20, "Page size")
}

func printAssets(w io.Writer, assets []storage.StakedAsset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("(none)"))
		return
	}
	for _, a := range assets {
		fmt.Fprintf(w, "- %s owner=%s quest=%d staked_at=%d\n", ui.Key.Render(a.AssetID), a.Owner, a.QuestID, a.StakedAt)
	}
}

func newStateCmd() *cobra.Command {
	var cred engine.ViewingCredential

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the engine configuration (admin key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			view, err := svc.GetState(ctx, cred)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconVault, "Engine state"))
			fmt.Fprintln(out, ui.LabelValue("Owner", view.Owner))
			fmt.Fprintln(out, ui.LabelValue("Address", view.SelfAddress))
			fmt.Fprintln(out, ui.LabelValue("Custody", view.Custody.Address))
			fmt.Fprintln(out, ui.LabelValue("Reward", view.Reward.Address))
			fmt.Fprintln(out, ui.LabelValue("Level cap", view.LevelCap))
			for _, l := range view.Levels {
				fmt.Fprintf(out, "- level %d at %d xp\n", l.Level, l.XPThreshold)
			}
			fmt.Fprintln(out, ui.LabelValue("Quests", len(view.Quests)))
			return nil
		},
	}
	credentialFlags(cmd, &cred)
	return cmd
}

func newStakedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staked",
		Short: "Inspect escrowed assets",
	}

	var countCred engine.ViewingCredential
	count := &cobra.Command{
		Use:   "count",
		Short: "Count every escrowed asset (admin key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.GetStakedAssetsCount(ctx, countCred)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Staked", n))
			return nil
		},
	}
	credentialFlags(count, &countCred)

	var pageCred engine.ViewingCredential
	var page, size int
	pageCmd := &cobra.Command{
		Use:   "page",
		Short: "Page through every escrowed asset (admin key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			assets, err := svc.GetStakedAssetsPage(ctx, pageCred, page, size)
			if err != nil {
				return err
			}
			printAssets(cmd.OutOrStdout(), assets)
			return nil
		},
	}
	credentialFlags(pageCmd, &pageCred)
	pageFlags(pageCmd, &page, &size)

	var permit string
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List the permit signer's escrowed assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			assets, err := svc.GetUserStakedAssets(ctx, permit)
			if err != nil {
				return err
			}
			printAssets(cmd.OutOrStdout(), assets)
			return nil
		},
	}
	permitFlag(mine, &permit)

	cmd.AddCommand(count, pageCmd, mine)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the permit signer's claim history",
	}

	var pagePermit string
	var page, size int
	pageCmd := &cobra.Command{
		Use:   "page",
		Short: "Page through claim history, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := svc.GetUserHistoryPage(ctx, pagePermit, page, size)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "History"))
			if len(records) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			for _, r := range records {
				fmt.Fprintf(out, "- %s quest=%d staked=%d claimed=%d xp=+%d reward=%d\n",
					ui.Key.Render(r.AssetID), r.QuestID, r.StakedAt, r.ClaimedAt, r.XPAwarded, r.Reward)
			}
			return nil
		},
	}
	permitFlag(pageCmd, &pagePermit)
	pageFlags(pageCmd, &page, &size)

	var countPermit string
	count := &cobra.Command{
		Use:   "count",
		Short: "Count claim history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.GetUserHistoryCount(ctx, countPermit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Records", n))
			return nil
		},
	}
	permitFlag(count, &countPermit)

	cmd.AddCommand(pageCmd, count)
	return cmd
}

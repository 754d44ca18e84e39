package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questvault/internal/config"
	"questvault/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Create and list quests",
	}
	cmd.AddCommand(newQuestStartCmd(), newQuestListCmd())
	return cmd
}

func newQuestStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <quest.yaml>",
		Short: "Create a quest (owner only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			q, err := config.LoadQuestFile(args[0])
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

			res, err := svc.StartQuest(ctx, call, q)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), "Quest created: "+q.Title, res)
			return nil
		},
	}
}

func newQuestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			quests, err := svc.ListQuests(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			if len(quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			now := blockTime().Unix()
			for _, q := range quests {
				fmt.Fprintf(out, "- %s %s [%s] assets=%d xp=%d reward=%d+%d participants=%d\n",
					ui.Key.Render(fmt.Sprintf("#%d", q.ID)), q.Title,
					ui.QuestPhase(q.StartTime, q.JoinWindow, now),
					q.RequiredAssets, q.XPReward, q.BaseReward, q.BonusReward, q.Participants)
			}
			return nil
		},
	}
}

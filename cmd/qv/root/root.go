package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questvault/internal/ui"
)

const Version = "0.1.0"

var (
	flagAs  string
	flagNow int64
	flagDB  string
)

var rootCmd = &cobra.Command{
	Use:           "qv",
	Short:         "Questvault: quest custody and reward engine",
	Long:          "Questvault escrows assets for time-bound quests, levels them up on claim and pays rewards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAs, "as", "", "Caller identity (defaults to $QV_SENDER)")
	pf.Int64Var(&flagNow, "now", 0, "Block time in Unix seconds (defaults to the wall clock)")
	pf.StringVar(&flagDB, "db", "", "Database path (defaults to $QV_DB_PATH or ~/.questvault.db)")

	rootCmd.AddCommand(
		newSetupCmd(),
		newQuestCmd(),
		newDepositCmd(),
		newReturnCmd(),
		newClaimCmd(),
		newRewardBackCmd(),
		newViewingKeyCmd(),
		newPermitCmd(),
		newStateCmd(),
		newStakedCmd(),
		newHistoryCmd(),
		newOutboxCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

// Package cli implements the focusd command-line interface using Cobra.
// Subcommands either start the daemon (serve) or run one-shot queries
// against the local database (summary, stats, leaderboard, record).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focusd",
	Short: "focusd — productivity scoring and gamification daemon",
	Long: `focusd turns raw app and browser-tab activity into focus scores,
points, streaks, badges and leaderboards. Run 'focusd serve' to start
the HTTP API, or use the query subcommands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

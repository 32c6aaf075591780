package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focuai/focusd/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <subject>",
	Short: "Show a subject's gamification progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, err := d.Engine.Stats(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Level %d — %d points (%d to next level)\n",
		stats.Level, stats.Points, stats.PointsToNextLevel)
	fmt.Printf("Badges: %d of %d\n", stats.BadgesEarned, stats.BadgesTotal)
	fmt.Printf("Challenges: %d active, %d completed\n",
		stats.ChallengesActive, stats.ChallengesDone)
	fmt.Printf("Streak: %d days (longest %d)\n",
		stats.Streak.Current, stats.Streak.Longest)
	return nil
}

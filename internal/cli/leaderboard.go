package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/focuai/focusd/internal/daemon"
	"github.com/focuai/focusd/internal/domain"
)

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardMetric, "metric", "total", "Points bucket: total, daily, weekly or monthly")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of entries")
	rootCmd.AddCommand(leaderboardCmd)
}

var (
	leaderboardMetric string
	leaderboardLimit  int
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Show the points leaderboard",
	RunE:    runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	metric, err := domain.ParseMetric(leaderboardMetric)
	if err != nil {
		return err
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Ranker.Top(metric, leaderboardLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No subjects ranked yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSUBJECT\tPOINTS\tLEVEL\tBADGES")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", e.Rank, e.SubjectID, e.Value, e.Level, e.Badges)
	}
	return w.Flush()
}

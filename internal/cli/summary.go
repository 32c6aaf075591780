package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/focuai/focusd/internal/daemon"
	"github.com/focuai/focusd/internal/domain"
)

func init() {
	summaryCmd.Flags().StringVar(&summaryWindow, "window", "daily", "Window: daily, weekly or monthly")
	rootCmd.AddCommand(summaryCmd)
}

var summaryWindow string

var summaryCmd = &cobra.Command{
	Use:   "summary <subject>",
	Short: "Show a subject's usage summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	window, err := domain.ParseWindow(summaryWindow)
	if err != nil {
		return err
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := d.Usage.Summary(args[0], window, time.Time{})
	if err != nil {
		return err
	}

	fmt.Printf("Focus score: %d%%  (%s, %s)\n", s.FocusScore, s.Window, s.Date)
	fmt.Printf("Productive:  %.1fh   Distracting: %.1fh   Total: %.1fh\n",
		s.ProductiveHours, s.DistractionHours, domain.RoundedHours(s.TotalActiveSeconds))
	if s.TopProductiveName != "" {
		fmt.Printf("Top productive: %s\n", s.TopProductiveName)
	}

	if len(s.TopNames) == 0 {
		return nil
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTIME")
	for _, n := range s.TopNames {
		fmt.Fprintf(w, "%s\t%.1fh\n", n.Name, domain.RoundedHours(n.Seconds))
	}
	return w.Flush()
}

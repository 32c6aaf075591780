package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/focuai/focusd/internal/daemon"
	"github.com/focuai/focusd/internal/domain"
)

func init() {
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record <subject> <app|tab> <name> <seconds>",
	Short: "Ingest one activity record",
	Args:  cobra.ExactArgs(4),
	RunE:  runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("seconds must be an integer: %w", err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	rec, err := d.Usage.Ingest(args[0], domain.RecordKind(args[1]), args[2], seconds, time.Time{})
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s use of %q (%ds) on %s\n", rec.Kind, rec.Name, rec.DurationSeconds, rec.CalendarDate)
	return nil
}

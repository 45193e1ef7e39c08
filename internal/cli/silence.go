package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var silenceFlags struct {
	start  string
	end    string
	reason string
}

var silenceCmd = &cobra.Command{
	Use:   "silence",
	Short: "Manage notification silence windows",
}

var silenceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a silence window (RFC 3339 timestamps)",
	RunE:  runSilenceAdd,
}

var silenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every silence window, stale ones included",
	RunE:  runSilenceList,
}

func init() {
	f := silenceAddCmd.Flags()
	f.StringVar(&silenceFlags.start, "start", "", "window start, e.g. 2026-09-01T22:00:00Z")
	f.StringVar(&silenceFlags.end, "end", "", "window end")
	f.StringVar(&silenceFlags.reason, "reason", "", "free-text reason")
	silenceAddCmd.MarkFlagRequired("start")
	silenceAddCmd.MarkFlagRequired("end")
	silenceAddCmd.MarkFlagRequired("reason")

	silenceCmd.AddCommand(silenceAddCmd, silenceListCmd)
	rootCmd.AddCommand(silenceCmd)
}

func runSilenceAdd(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(time.RFC3339, silenceFlags.start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, silenceFlags.end)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}

	req := map[string]interface{}{
		"start":  start,
		"end":    end,
		"reason": silenceFlags.reason,
	}

	if err := client.CreateSilence(req); err != nil {
		return err
	}

	fmt.Printf("Silence window set from %s to %s\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
	return nil
}

func runSilenceList(cmd *cobra.Command, args []string) error {
	silences, silenced, err := client.ListSilences()
	if err != nil {
		return err
	}

	if len(silences) == 0 {
		fmt.Println("No silence windows configured")
		return nil
	}

	for _, s := range silences {
		fmt.Printf("%s — %s  %s\n", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339), s.Reason)
	}

	if silenced {
		fmt.Println("\nNotifications are currently silenced")
	}

	return nil
}

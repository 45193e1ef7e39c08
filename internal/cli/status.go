package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every alert with its run and health state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := client.Health(); err != nil {
		return fmt.Errorf("cannot reach Argus API at %s: %w", apiURL, err)
	}

	alerts, err := client.ListAlerts()
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("No alerts configured")
		return nil
	}

	fmt.Printf("%-24s %-20s %-10s %-10s %s\n", "ALERT", "JOB", "RUN", "HEALTH", "INTERVAL")
	for _, a := range alerts {
		fmt.Printf("%-24s %-20s %-10s %-10s %ds\n", a.Name, a.JobName, a.RunState, a.HealthState, a.Interval)
	}

	return nil
}

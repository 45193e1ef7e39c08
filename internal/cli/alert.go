package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var alertFlags struct {
	name         string
	job          string
	account      string
	interval     int
	confirmDelay int
	notifyOnce   bool
	label        string
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage alerts",
}

var alertAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an alert binding a job to an account",
	RunE:  runAlertAdd,
}

var alertStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start an alert's check loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.StartAlert(args[0]); err != nil {
			return err
		}
		fmt.Printf("Alert %s started\n", args[0])
		return nil
	},
}

var alertPauseCmd = &cobra.Command{
	Use:   "pause <name>",
	Short: "Pause an alert without discarding its health state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.PauseAlert(args[0]); err != nil {
			return err
		}
		fmt.Printf("Alert %s paused\n", args[0])
		return nil
	},
}

var alertStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop an alert and reset its health state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.StopAlert(args[0]); err != nil {
			return err
		}
		fmt.Printf("Alert %s stopped\n", args[0])
		return nil
	},
}

func init() {
	f := alertAddCmd.Flags()
	f.StringVar(&alertFlags.name, "name", "", "unique alert name")
	f.StringVar(&alertFlags.job, "job", "", "monitoring job name")
	f.StringVar(&alertFlags.account, "account", "", "notification account name")
	f.IntVar(&alertFlags.interval, "interval", 300, "evaluation interval in seconds (min 60)")
	f.IntVar(&alertFlags.confirmDelay, "confirm-delay", 0, "confirmation delay in seconds (default 300)")
	f.BoolVar(&alertFlags.notifyOnce, "notify-once", false, "notify only on entering the alerting state")
	f.StringVar(&alertFlags.label, "label", "", "mailbox label that triggers this alert")
	alertAddCmd.MarkFlagRequired("name")
	alertAddCmd.MarkFlagRequired("job")
	alertAddCmd.MarkFlagRequired("account")

	alertCmd.AddCommand(alertAddCmd, alertStartCmd, alertPauseCmd, alertStopCmd)
	rootCmd.AddCommand(alertCmd)
}

func runAlertAdd(cmd *cobra.Command, args []string) error {
	req := map[string]interface{}{
		"name":          alertFlags.name,
		"job_name":      alertFlags.job,
		"account_name":  alertFlags.account,
		"interval":      alertFlags.interval,
		"confirm_delay": alertFlags.confirmDelay,
		"notify_once":   alertFlags.notifyOnce,
		"label":         alertFlags.label,
	}

	if err := client.CreateAlert(req); err != nil {
		return err
	}

	fmt.Printf("Alert %s created\n", alertFlags.name)
	return nil
}

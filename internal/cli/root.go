package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL string
	token  string
	client *Client
)

var rootCmd = &cobra.Command{
	Use:   "argusctl",
	Short: "Operator CLI for the Argus health-check-and-alert engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client = NewClient(apiURL, token)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultURL := os.Getenv("ARGUS_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3000"
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "Argus API URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ARGUS_TOKEN"), "Bearer token (defaults to ARGUS_TOKEN)")
}

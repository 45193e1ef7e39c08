package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jobFlags struct {
	name        string
	target      string
	kind        string
	proxy       string
	pattern     string
	acceptCodes []int
}

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage monitoring jobs",
}

var jobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a monitoring job",
	RunE:  runJobAdd,
}

func init() {
	f := jobAddCmd.Flags()
	f.StringVar(&jobFlags.name, "name", "", "unique job name")
	f.StringVar(&jobFlags.target, "target", "", "target URL or host")
	f.StringVar(&jobFlags.kind, "kind", "public", "target kind: public, intranet or database")
	f.StringVar(&jobFlags.proxy, "proxy", "", "proxy URL for intranet targets")
	f.StringVar(&jobFlags.pattern, "pattern", "", "regex the response body must match")
	f.IntSliceVar(&jobFlags.acceptCodes, "accept-code", nil, "acceptable HTTP status code (repeatable)")
	jobAddCmd.MarkFlagRequired("name")
	jobAddCmd.MarkFlagRequired("target")

	jobCmd.AddCommand(jobAddCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobAdd(cmd *cobra.Command, args []string) error {
	req := map[string]interface{}{
		"name":         jobFlags.name,
		"target":       jobFlags.target,
		"kind":         jobFlags.kind,
		"proxy":        jobFlags.proxy,
		"pattern":      jobFlags.pattern,
		"accept_codes": jobFlags.acceptCodes,
	}

	if err := client.CreateJob(req); err != nil {
		return err
	}

	fmt.Printf("Job %s created\n", jobFlags.name)
	return nil
}

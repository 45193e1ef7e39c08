package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountFlags struct {
	name       string
	sid        string
	token      string
	from       string
	twimlURL   string
	smtpFrom   string
	recipients []string
	methods    []string
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage notification accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a notification account",
	RunE:  runAccountAdd,
}

func init() {
	f := accountAddCmd.Flags()
	f.StringVar(&accountFlags.name, "name", "", "unique account name")
	f.StringVar(&accountFlags.sid, "sid", "", "Twilio account SID")
	f.StringVar(&accountFlags.token, "auth-token", "", "Twilio auth token")
	f.StringVar(&accountFlags.from, "from", "", "sending phone number")
	f.StringVar(&accountFlags.twimlURL, "twiml-url", "", "TwiML bin URL for voice calls")
	f.StringVar(&accountFlags.smtpFrom, "smtp-from", "", "sender address for email delivery")
	f.StringSliceVar(&accountFlags.recipients, "recipient", nil, "recipient (repeatable, max 10)")
	f.StringSliceVar(&accountFlags.methods, "method", []string{"sms"}, "delivery method: call, sms or email (repeatable)")
	accountAddCmd.MarkFlagRequired("name")
	accountAddCmd.MarkFlagRequired("sid")
	accountAddCmd.MarkFlagRequired("auth-token")
	accountAddCmd.MarkFlagRequired("from")
	accountAddCmd.MarkFlagRequired("recipient")

	accountCmd.AddCommand(accountAddCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	req := map[string]interface{}{
		"name":        accountFlags.name,
		"account_sid": accountFlags.sid,
		"auth_token":  accountFlags.token,
		"from_number": accountFlags.from,
		"twiml_url":   accountFlags.twimlURL,
		"smtp_from":   accountFlags.smtpFrom,
		"recipients":  accountFlags.recipients,
		"methods":     accountFlags.methods,
	}

	if err := client.CreateAccount(req); err != nil {
		return err
	}

	fmt.Printf("Account %s created\n", accountFlags.name)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain a bearer token for subsequent commands",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "operator password")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	tok, err := client.Login(loginPassword)
	if err != nil {
		return err
	}

	fmt.Println(tok)
	fmt.Println("\nexport ARGUS_TOKEN=<token above> to authenticate other commands")
	return nil
}

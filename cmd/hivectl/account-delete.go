package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
)

// accountDeleteCmd represents the account delete command
var accountDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an account",
	Long: `Delete an account.

This command removes the account, its persisted session and all of its
module links. The shared module catalog is untouched.

Example:
  hivectl account delete alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		if err := deleteAccount(name); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete account: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Deleted account '%s'\n", name)
	},
}

func init() {
	accountCmd.AddCommand(accountDeleteCmd)
}

func deleteAccount(name string) error {
	accounts, _, _, _, err := openStores()
	if err != nil {
		return err
	}

	account, err := accounts.AccountByName(name)
	if err == nil {
		err = accounts.DeleteAccount(account.ID)
	}
	audit.Log(audit.AccountEvent{
		AccountName:  name,
		Operation:    "delete",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

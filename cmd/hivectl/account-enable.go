package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
)

// accountEnableCmd represents the account enable command
var accountEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable an account",
	Long: `Enable an account.

An enabled account is started by 'hivectl run'. Enabling does not
connect anything by itself.

Example:
  hivectl account enable alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setAccountEnabled(args[0], true); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to enable account: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Enabled account '%s'\n", args[0])
	},
}

// accountDisableCmd represents the account disable command
var accountDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable an account",
	Long: `Disable an account.

A disabled account is skipped by 'hivectl run'. Its session, links and
credentials are kept.

Example:
  hivectl account disable alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setAccountEnabled(args[0], false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to disable account: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Disabled account '%s'\n", args[0])
	},
}

func init() {
	accountCmd.AddCommand(accountEnableCmd)
	accountCmd.AddCommand(accountDisableCmd)
}

func setAccountEnabled(name string, enabled bool) error {
	accounts, _, _, _, err := openStores()
	if err != nil {
		return err
	}

	account, err := accounts.AccountByName(name)
	if err == nil {
		err = accounts.SetEnabled(account.ID, enabled)
	}
	operation := "enable"
	if !enabled {
		operation = "disable"
	}
	audit.Log(audit.AccountEvent{
		AccountName:  name,
		Operation:    operation,
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

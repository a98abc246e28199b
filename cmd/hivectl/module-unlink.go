package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
)

// moduleUnlinkCmd represents the module unlink command
var moduleUnlinkCmd = &cobra.Command{
	Use:   "unlink <account> <module>",
	Short: "Unlink a module from an account",
	Long: `Unlink a module from an account.

Only the link is removed; the module stays in the shared catalog and
other accounts' links are untouched.

Example:
  hivectl module unlink alice weather`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := unlinkModule(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to unlink module: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Unlinked module '%s' from account '%s'\n", args[1], args[0])
	},
}

func init() {
	moduleCmd.AddCommand(moduleUnlinkCmd)
}

func unlinkModule(accountName, moduleName string) error {
	accounts, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	accountID, moduleID, err := resolveLink(accounts, modules, accountName, moduleName)
	if err == nil {
		err = modules.UnlinkModule(accountID, moduleID)
	}
	audit.Log(audit.ModuleEvent{
		AccountName:  accountName,
		ModuleName:   moduleName,
		Operation:    "unlink",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

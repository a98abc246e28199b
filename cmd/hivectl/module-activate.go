package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
)

// moduleActivateCmd represents the module activate command
var moduleActivateCmd = &cobra.Command{
	Use:   "activate <account> <module>",
	Short: "Activate a linked module",
	Long: `Activate a linked module.

Only active links are loaded when the account starts. The trust flag
and configuration are untouched.

Example:
  hivectl module activate alice weather`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setModuleActive(args[0], args[1], true); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to activate module: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Activated module '%s' on account '%s'\n", args[1], args[0])
	},
}

// moduleDeactivateCmd represents the module deactivate command
var moduleDeactivateCmd = &cobra.Command{
	Use:   "deactivate <account> <module>",
	Short: "Deactivate a linked module",
	Long: `Deactivate a linked module.

The link and its configuration are kept; the module is simply not
loaded the next time the account starts.

Example:
  hivectl module deactivate alice weather`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setModuleActive(args[0], args[1], false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to deactivate module: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Deactivated module '%s' on account '%s'\n", args[1], args[0])
	},
}

func init() {
	moduleCmd.AddCommand(moduleActivateCmd)
	moduleCmd.AddCommand(moduleDeactivateCmd)
}

func setModuleActive(accountName, moduleName string, active bool) error {
	accounts, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	accountID, moduleID, err := resolveLink(accounts, modules, accountName, moduleName)
	if err == nil {
		err = modules.SetActive(accountID, moduleID, active)
	}
	operation := "activate"
	if !active {
		operation = "deactivate"
	}
	audit.Log(audit.ModuleEvent{
		AccountName:  accountName,
		ModuleName:   moduleName,
		Operation:    operation,
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

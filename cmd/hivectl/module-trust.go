package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
)

// moduleTrustCmd represents the module trust command
var moduleTrustCmd = &cobra.Command{
	Use:   "trust <account> <module>",
	Short: "Trust a module for one account",
	Long: `Trust a module for one account.

A trusted module receives the raw client handle instead of the
restricted one when the account starts. Trust is per account and per
module; trusting a module for one account does not affect any other.

Example:
  hivectl module trust alice admin
  hivectl module trust alice admin --revoke`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		revoke, _ := cmd.Flags().GetBool("revoke")

		if err := trustModule(args[0], args[1], !revoke); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update trust: %v\n", err)
			os.Exit(1)
		}
		if revoke {
			fmt.Fprintf(os.Stderr, "Revoked trust for module '%s' on account '%s'\n", args[1], args[0])
		} else {
			fmt.Fprintf(os.Stderr, "Trusted module '%s' on account '%s'\n", args[1], args[0])
		}
	},
}

func init() {
	moduleCmd.AddCommand(moduleTrustCmd)
	moduleTrustCmd.Flags().Bool("revoke", false, "Revoke trust instead of granting it")
}

func trustModule(accountName, moduleName string, trusted bool) error {
	accounts, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	accountID, moduleID, err := resolveLink(accounts, modules, accountName, moduleName)
	if err == nil {
		err = modules.SetTrust(accountID, moduleID, trusted)
	}
	operation := "trust"
	if !trusted {
		operation = "revoke-trust"
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

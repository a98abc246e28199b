package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
	"github.com/telehive/telehive/pkg/manifest"
)

// moduleLinkCmd represents the module link command
var moduleLinkCmd = &cobra.Command{
	Use:   "link <account> <module>",
	Short: "Link a module to an account",
	Long: `Link a module to an account.

The link starts with the manifest's declared configuration defaults.
Linking is idempotent: re-linking updates the existing link instead of
duplicating it. A link is never created trusted; use 'module trust'.

Example:
  hivectl module link alice weather --active`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		active, _ := cmd.Flags().GetBool("active")

		if err := linkModule(args[0], args[1], active); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to link module: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Linked module '%s' to account '%s'\n", args[1], args[0])
	},
}

func init() {
	moduleCmd.AddCommand(moduleLinkCmd)
	moduleLinkCmd.Flags().Bool("active", false, "Activate the module immediately")
}

func linkModule(accountName, moduleName string, active bool) error {
	accounts, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	accountID, moduleID, err := resolveLink(accounts, modules, accountName, moduleName)
	if err != nil {
		return err
	}

	module, err := modules.Module(moduleName)
	if err != nil {
		return err
	}
	man, err := manifest.ParseFile(module.Path)
	if err != nil {
		return fmt.Errorf("stored module source no longer parses: %w", err)
	}

	err = modules.LinkModule(accountID, moduleID, man.Config, active)
	audit.Log(audit.ModuleEvent{
		AccountName:  accountName,
		ModuleName:   moduleName,
		Operation:    "link",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

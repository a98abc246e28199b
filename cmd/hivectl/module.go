package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	storegorm "github.com/telehive/telehive/pkg/store/gorm"
)

// moduleCmd represents the module command
var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Manage plugin modules",
	Long:  `Manage the plugin module catalog and per-account module links.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'module' requires a subcommand (register, link, unlink, activate, deactivate, trust, config, list, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(moduleCmd)
}

// resolveLink turns account and module names into their ids.
func resolveLink(accounts *storegorm.AccountsStore, modules *storegorm.ModulesStore, accountName, moduleName string) (int64, int64, error) {
	account, err := accounts.AccountByName(accountName)
	if err != nil {
		return 0, 0, err
	}
	module, err := modules.Module(moduleName)
	if err != nil {
		return 0, 0, err
	}
	return account.ID, module.ID, nil
}

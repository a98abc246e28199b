package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
	"github.com/telehive/telehive/pkg/manifest"
)

// moduleConfigCmd represents the module config command
var moduleConfigCmd = &cobra.Command{
	Use:   "config <account> <module> <key> <value>",
	Short: "Set one configuration key of a module link",
	Long: `Set one configuration key of a module link.

The value is cast to the type of the manifest's declared default for
that key, so a key declared as an integer never ends up storing text.

Example:
  hivectl module config alice weather units imperial
  hivectl module config alice weather retries 5`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		if err := configureModule(args[0], args[1], args[2], args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Set %s.%s = %s for account '%s'\n", args[1], args[2], args[3], args[0])
	},
}

func init() {
	moduleCmd.AddCommand(moduleConfigCmd)
}

func configureModule(accountName, moduleName, key, raw string) error {
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

	value, err := man.CastValue(key, raw)
	if err == nil {
		err = modules.SetConfigKey(accountID, moduleID, key, value)
	}
	audit.Log(audit.ModuleEvent{
		AccountName:  accountName,
		ModuleName:   moduleName,
		Operation:    "configure",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

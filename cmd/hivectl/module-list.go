package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// moduleListCmd represents the module list command
var moduleListCmd = &cobra.Command{
	Use:   "list [account]",
	Short: "List modules",
	Long: `List modules.

Without an argument, lists the whole catalog. With an account name,
lists that account's active modules with their trust flag and
configuration.

Example:
  hivectl module list
  hivectl module list alice`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		if len(args) == 0 {
			err = listCatalog()
		} else {
			err = listActiveModules(args[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list modules: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	moduleCmd.AddCommand(moduleListCmd)
}

func listCatalog() error {
	_, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	catalog, err := modules.ListModules()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tPATH")
	for _, module := range catalog {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", module.ID, module.Name, module.Version, module.Path)
	}
	return w.Flush()
}

func listActiveModules(accountName string) error {
	accounts, modules, _, _, err := openStores()
	if err != nil {
		return err
	}

	account, err := accounts.AccountByName(accountName)
	if err != nil {
		return err
	}

	active, err := modules.ActiveModules(account.ID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tTRUSTED\tCONFIGURATION")
	for _, module := range active {
		configJSON := "-"
		if module.Config != nil {
			data, err := json.Marshal(module.Config)
			if err != nil {
				return err
			}
			configJSON = string(data)
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", module.Name, module.Version, module.Trusted, configJSON)
	}
	return w.Flush()
}

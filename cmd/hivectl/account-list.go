package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// accountListCmd represents the account list command
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Long:  `List all accounts with their enablement and authentication state.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listAccounts(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list accounts: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	accountCmd.AddCommand(accountListCmd)
}

func listAccounts() error {
	accounts, _, _, _, err := openStores()
	if err != nil {
		return err
	}

	all, err := accounts.ListAccounts()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tENABLED\tAUTHENTICATED\tLANG")
	for _, account := range all {
		authenticated := account.RemoteIdentityID != nil
		fmt.Fprintf(w, "%d\t%s\t%v\t%v\t%s\n",
			account.ID, account.Name, account.Enabled, authenticated, account.LangCode)
	}
	return w.Flush()
}

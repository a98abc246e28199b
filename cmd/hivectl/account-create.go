package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
	"github.com/telehive/telehive/pkg/store"
)

// accountCreateCmd represents the account create command
var accountCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an account",
	Long: `Create an account.

This command registers a new protocol account. The API credentials are
encrypted with TELEHIVE_DATA_KEY before they are stored, so the key must
be available in the environment.

The account starts enabled but unauthenticated; the first connection
performs the login and records the remote identity.

Example:
  hivectl account create alice --api-id 12345 --api-hash deadbeef`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		apiID, _ := cmd.Flags().GetString("api-id")
		apiHash, _ := cmd.Flags().GetString("api-hash")
		langCode, _ := cmd.Flags().GetString("lang-code")
		proxyType, _ := cmd.Flags().GetString("proxy-type")
		proxyHost, _ := cmd.Flags().GetString("proxy-host")
		proxyPort, _ := cmd.Flags().GetInt("proxy-port")
		proxyUser, _ := cmd.Flags().GetString("proxy-user")
		proxyPass, _ := cmd.Flags().GetString("proxy-pass")

		account := store.NewAccount{
			Name:     name,
			APIID:    apiID,
			APIHash:  apiHash,
			LangCode: langCode,
		}
		if proxyType != "" {
			account.Proxy = &store.Proxy{
				Type:     proxyType,
				Host:     proxyHost,
				Port:     proxyPort,
				Username: proxyUser,
				Password: proxyPass,
			}
		}

		if err := createAccount(account); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create account: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Created new account '%s'\n", name)
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCreateCmd.Flags().String("api-id", "", "API id issued for this account (required)")
	accountCreateCmd.Flags().String("api-hash", "", "API hash issued for this account (required)")
	accountCreateCmd.Flags().String("lang-code", "", "Language code (default: en)")
	accountCreateCmd.Flags().String("proxy-type", "", "Proxy type (socks5, mtproto)")
	accountCreateCmd.Flags().String("proxy-host", "", "Proxy host")
	accountCreateCmd.Flags().Int("proxy-port", 0, "Proxy port")
	accountCreateCmd.Flags().String("proxy-user", "", "Proxy username")
	accountCreateCmd.Flags().String("proxy-pass", "", "Proxy password")
	_ = accountCreateCmd.MarkFlagRequired("api-id")
	_ = accountCreateCmd.MarkFlagRequired("api-hash")
}

func createAccount(account store.NewAccount) error {
	accounts, _, _, _, err := openStores()
	if err != nil {
		return err
	}

	_, err = accounts.CreateAccount(account)
	audit.Log(audit.AccountEvent{
		AccountName:  account.Name,
		Operation:    "create",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	return err
}

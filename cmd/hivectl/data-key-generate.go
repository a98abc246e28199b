package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/secrets"
)

// dataKeyGenerateCmd represents the data-key > generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `
Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit data encryption key.
Once generated, this key should be placed into the environment of every telehive
process. It is used to encrypt all sensitive data stored in the database,
including session authentication keys and account API credentials.

Example:

$ export TELEHIVE_DATA_KEY="$(hivectl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := secrets.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(key))
	},
}

func init() {
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}

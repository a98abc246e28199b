package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/config"
	"github.com/telehive/telehive/pkg/db"
	"github.com/telehive/telehive/pkg/secrets"
	storegorm "github.com/telehive/telehive/pkg/store/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "hivectl",
	Short: "Manage a hive of protocol client accounts",
	Long: `hivectl manages accounts, their sessions and plugin modules for the
telehive multi-account client manager.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// openDatabase connects to the database with the cipher built from the
// process data key. Most commands need both.
func openDatabase() (*gorm.DB, secrets.Cipher, error) {
	key, err := config.DataKey()
	if err != nil {
		return nil, nil, err
	}
	cipher, err := secrets.NewSymmetric(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	url, err := config.DatabaseURL()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Connect(db.Config{URL: url})
	if err != nil {
		return nil, nil, err
	}
	return database, cipher, nil
}

func openStores() (*storegorm.AccountsStore, *storegorm.ModulesStore, *gorm.DB, secrets.Cipher, error) {
	database, cipher, err := openDatabase()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return storegorm.NewAccountsStore(database, cipher), storegorm.NewModulesStore(database), database, cipher, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

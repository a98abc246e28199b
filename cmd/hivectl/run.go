package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/config"
	"github.com/telehive/telehive/pkg/modcache"
	"github.com/telehive/telehive/pkg/plugins"
	"github.com/telehive/telehive/pkg/protocol"
	"github.com/telehive/telehive/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all enabled accounts",
	Long: `Run all enabled accounts.

Each enabled account loads its session, connects and activates its
linked modules. Accounts run independently; one account failing to
start never stops the others.

Requires the environment variables TELEHIVE_DATA_KEY and DATABASE_URL.

Example:
  hivectl run`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHive(); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Failed to run: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runHive() error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	accounts, modules, database, cipher, err := openStores()
	if err != nil {
		return err
	}

	dialer, err := protocol.ActiveDialer()
	if err != nil {
		return err
	}

	hive := runner.New(
		database,
		cipher,
		accounts,
		modules,
		dialer,
		plugins.Loader{},
		modcache.New(),
		cfg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting hive (plugins linked: %v)", plugins.Names())
	return hive.Run(ctx)
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// moduleWatchCmd represents the module watch command
var moduleWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and re-register modules on change",
	Long: `Watch a directory and re-register modules when their source changes.

Every .go file written or created under the directory is re-parsed and
its catalog entry updated. A file whose manifest fails validation is
reported and skipped; the previous registration stays in place.

Example:
  hivectl module watch /var/lib/telehive/modules`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchModules(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch modules: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	moduleCmd.AddCommand(moduleWatchCmd)
}

func watchModules(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for module changes\n", dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !strings.HasSuffix(event.Name, ".go") {
				continue
			}

			fmt.Printf("[%s] %s changed, re-registering...\n",
				time.Now().Format(time.RFC3339), filepath.Base(event.Name))

			name, err := registerModule(event.Name, "")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error registering module: %v\n", err)
				continue
			}
			fmt.Printf("Module '%s' registered\n", name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)

		case <-sigChan:
			fmt.Println("Shutting down watcher")
			return nil
		}
	}
}

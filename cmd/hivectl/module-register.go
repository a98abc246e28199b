package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telehive/telehive/pkg/audit"
	"github.com/telehive/telehive/pkg/manifest"
)

// moduleRegisterCmd represents the module register command
var moduleRegisterCmd = &cobra.Command{
	Use:   "register <file>",
	Short: "Register a plugin module from its source file",
	Long: `Register a plugin module from its source file.

The source is statically parsed, never executed. A module whose manifest
fails to parse or validate is rejected and nothing is written.

Re-registering an already-known module updates its catalog entry.

Example:
  hivectl module register /var/lib/telehive/modules/weather.go
  hivectl module register weather.go --name wx`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")

		registered, err := registerModule(args[0], name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register module: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Registered module '%s'\n", registered)
	},
}

func init() {
	moduleCmd.AddCommand(moduleRegisterCmd)
	moduleRegisterCmd.Flags().StringP("name", "n", "", "Module name (default: manifest name or file name)")
}

func registerModule(path, name string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	man, err := manifest.ParseFile(absPath)
	if err != nil {
		return "", err
	}

	if name == "" {
		if man.Info != nil && man.Info.Name != "" {
			name = man.Info.Name
		} else {
			name = strings.TrimSuffix(filepath.Base(absPath), ".go")
		}
	}

	_, modules, _, _, err := openStores()
	if err != nil {
		return "", err
	}

	_, err = modules.RegisterModule(name, absPath, man.Description(), man.Version())
	audit.Log(audit.ModuleEvent{
		ModuleName:   name,
		Operation:    "register",
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Command colmap fetches normalized column metadata from the configured
// database roles, archives it, and serves it over HTTP.
package main

import (
	"os"

	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "colmap",
		Short: "Normalize column metadata across Postgres, Oracle, MySQL, SQL Server and DB2",
		Long: `colmap reads a table's column definitions from an engine catalog and
classifies each column, decides whether its name must keep its case, and
builds the SQL expression that reads its value in a normalized text form
for the destination engine.

Connections are named roles ("source", "target", ...) in a YAML config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "colmap.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level from the config (debug, info, warn, error)")

	root.AddCommand(
		newClassifyCmd(),
		newColumnsCmd(),
		newTablesCmd(),
		newPreviewCmd(),
		newArchiveCmd(),
		newServeCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Global().ErrorWith("command execution failed", err, nil)
		os.Exit(1)
	}
}

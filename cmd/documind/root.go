package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the DocuMind CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documind",
		Short: "DocuMind - document management authentication service",
		Long: `DocuMind's authentication service: session-backed bearer tokens,
role-based access control, and user administration over PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewBootstrapCmd())

	return cmd
}

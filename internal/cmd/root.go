package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cactus-admin",
	Short: "Cactus Großhandel admin API",
	Long: `cactus-admin serves the admin panel API of the Cactus Großhandel order app:
order list and status changes, customers, and the printable delivery note
(Lieferschein) for every order.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

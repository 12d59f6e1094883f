// Package main implements the learning-tracker command: the HTTP API server
// plus migration and token tooling around it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "learning-tracker",
	Short: "Track courses, books and certifications through their modules",
	Long: `learning-tracker serves the learning tracker HTTP API.

Available subcommands:
  serve   - Run the HTTP API server
  migrate - Apply or inspect database migrations
  user    - Manage users
  token   - Issue an access token for a user`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/copydesk/copydesk/internal/cli"
	"github.com/copydesk/copydesk/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "copydesk",
		Short: "Copydesk CLI - UX copy assistant",
		Long: `Copydesk CLI provides commands to manage workspace knowledge, copy
patterns and microcopy generation.

Environment variables:
  COPYDESK_API_KEY   API key for authentication (required)
  COPYDESK_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.WorkspaceCmd())
	rootCmd.AddCommand(client.DocumentCmd())
	rootCmd.AddCommand(client.PatternCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.GenerateCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/copydesk/copydesk/internal/cli"
	"github.com/copydesk/copydesk/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "copydeskd",
		Short: "Copydesk daemon and admin CLI",
		Long:  "Copydesk daemon for running the API server and managing workspace backups",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.BackupCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

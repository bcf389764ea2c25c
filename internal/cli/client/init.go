package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "init <api-key>",
		Short: "Save API credentials",
		Long:  "Stores the API key and URL in the global config so other commands can use them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := args[0]
			if apiKey == "" {
				return fmt.Errorf("api key cannot be empty")
			}
			if apiURL == "" {
				apiURL = defaultAPIURL
			}

			// Verify the credentials before persisting them.
			api, err := NewAPIClientWithConfig(apiKey, apiURL)
			if err != nil {
				return err
			}
			if _, err := api.Get("/workspaces"); err != nil {
				return fmt.Errorf("credential check failed: %w", err)
			}

			if err := SaveGlobalConfig(&GlobalConfig{APIKey: apiKey, APIURL: apiURL}); err != nil {
				return err
			}

			configPath, _ := GetConfigPath()
			fmt.Printf("Credentials saved to %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", "", "API base URL (default: "+defaultAPIURL+")")

	return cmd
}

package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Workspace represents a workspace as returned by the API.
type Workspace struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	ParentID  string `json:"parent_id,omitempty"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// WorkspaceCmd creates the workspace command group.
func WorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(workspaceCreateCmd())
	cmd.AddCommand(workspaceListCmd())
	cmd.AddCommand(workspaceArchiveCmd())

	return cmd
}

func workspaceCreateCmd() *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/workspaces", map[string]string{
				"name":      args[0],
				"parent_id": parentID,
			})
			if err != nil {
				return fmt.Errorf("create failed: %w", err)
			}

			var ws Workspace
			if err := json.Unmarshal(resp.Data, &ws); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Created workspace %q (id: %s)\n", ws.Name, ws.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Parent workspace ID")

	return cmd
}

func workspaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/workspaces")
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			var workspaces []Workspace
			if err := json.Unmarshal(resp.Data, &workspaces); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(workspaces, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if len(workspaces) == 0 {
				fmt.Println("No workspaces found.")
				return nil
			}
			for _, ws := range workspaces {
				marker := ""
				if ws.Archived {
					marker = " (archived)"
				}
				if ws.ParentID != "" {
					fmt.Printf("%s  %s%s  parent: %s\n", ws.ID, ws.Name, marker, ws.ParentID)
				} else {
					fmt.Printf("%s  %s%s\n", ws.ID, ws.Name, marker)
				}
			}
			return nil
		},
	}
}

func workspaceArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <workspace-id>",
		Short: "Archive a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Post("/workspaces/"+args[0]+"/archive", nil); err != nil {
				return fmt.Errorf("archive failed: %w", err)
			}

			fmt.Printf("Archived workspace %s\n", args[0])
			return nil
		},
	}
}

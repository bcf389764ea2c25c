package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Document represents a knowledge document as returned by the API.
type Document struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Active      bool   `json:"active"`
	ChunkCount  int    `json:"chunk_count"`
	UpdatedAt   string `json:"updated_at"`
}

type documentPage struct {
	Items   []Document `json:"items"`
	Cursor  string     `json:"cursor,omitempty"`
	HasMore bool       `json:"has_more"`
}

// DocumentCmd creates the document command group.
func DocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Manage knowledge documents",
	}

	cmd.AddCommand(documentAddCmd())
	cmd.AddCommand(documentListCmd())
	cmd.AddCommand(documentRemoveCmd())

	return cmd
}

func documentAddCmd() *cobra.Command {
	var (
		workspaceID string
		category    string
		filePath    string
		content     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a knowledge document",
		Long:  "Adds a document to the workspace knowledge base. Content comes from --file or --content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" && content == "" {
				return fmt.Errorf("either --file or --content is required")
			}
			if filePath != "" {
				data, err := os.ReadFile(filePath)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", filePath, err)
				}
				content = string(data)
			}

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/documents", map[string]string{
				"workspace_id": workspaceID,
				"category":     category,
				"title":        args[0],
				"content":      content,
			})
			if err != nil {
				return fmt.Errorf("add failed: %w", err)
			}

			var doc Document
			if err := json.Unmarshal(resp.Data, &doc); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Added %q (id: %s, %d chunks indexed)\n", doc.Title, doc.ID, doc.ChunkCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "style_guide", "Document category: style_guide, voice_tone, terminology, research, examples")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read content from a file")
	cmd.Flags().StringVar(&content, "content", "", "Inline document content")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func documentListCmd() *cobra.Command {
	var (
		workspaceID string
		cursor      string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents in a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/documents?workspace_id=%s&limit=%d", workspaceID, limit)
			if cursor != "" {
				path += "&cursor=" + cursor
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			var page documentPage
			if err := json.Unmarshal(resp.Data, &page); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(page, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if len(page.Items) == 0 {
				fmt.Println("No documents found.")
				return nil
			}
			for _, doc := range page.Items {
				state := "active"
				if !doc.Active {
					state = "inactive"
				}
				fmt.Printf("%s  [%s] %s (%s, %d chunks)\n", doc.ID, doc.Category, doc.Title, state, doc.ChunkCount)
			}
			if page.HasMore && page.Cursor != "" {
				fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID (required)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func documentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document-id>",
		Short: "Deactivate a document",
		Long:  "Deactivates a document so it no longer appears in search results. The document itself is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/documents/" + args[0]); err != nil {
				return fmt.Errorf("remove failed: %w", err)
			}

			fmt.Printf("Deactivated document %s\n", args[0])
			return nil
		},
	}
}

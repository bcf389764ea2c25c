package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query       string `json:"query"`
	WorkspaceID string `json:"workspace_id"`
	Limit       int    `json:"limit,omitempty"`
}

// SearchResult represents one ranked passage from the knowledge base.
type SearchResult struct {
	ChunkID          string  `json:"chunk_id"`
	DocumentID       string  `json:"document_id"`
	DocumentTitle    string  `json:"document_title"`
	DocumentCategory string  `json:"document_category"`
	Content          string  `json:"content"`
	Similarity       float32 `json:"similarity"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		workspaceID string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search workspace knowledge",
		Long:  "Searches the workspace knowledge base (including parent workspaces) by semantic similarity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(cmd, args[0], workspaceID, limit, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID to search in (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of results")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func runSearch(cmd *cobra.Command, query, workspaceID string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/search", SearchRequest{
		Query:       query,
		WorkspaceID: workspaceID,
		Limit:       limit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var results []SearchResult
	if err := json.Unmarshal(resp.Data, &results); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d passages:\n\n", len(results))
	for i, result := range results {
		fmt.Printf("%d. [%s] %s (%.2f)\n", i+1, result.DocumentCategory, result.DocumentTitle, result.Similarity)
		content := result.Content
		if len(content) > 120 {
			content = content[:117] + "..."
		}
		fmt.Printf("   %s\n", content)
		if i < len(results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}

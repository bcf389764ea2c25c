package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Pattern represents a copy pattern as returned by the API.
type Pattern struct {
	ID            string `json:"id"`
	ComponentType string `json:"component_type"`
	Text          string `json:"text"`
	Source        string `json:"source"`
	Approved      bool   `json:"approved"`
	ABTestWinner  bool   `json:"ab_test_winner"`
	UXRValidated  bool   `json:"uxr_validated"`
	UsageCount    int64  `json:"usage_count"`
}

type patternPage struct {
	Items   []Pattern `json:"items"`
	Cursor  string    `json:"cursor,omitempty"`
	HasMore bool      `json:"has_more"`
}

// PatternCmd creates the pattern command group.
func PatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Manage copy patterns",
	}

	cmd.AddCommand(patternAddCmd())
	cmd.AddCommand(patternListCmd())

	return cmd
}

func patternAddCmd() *cobra.Command {
	var (
		componentType string
		contextNote   string
		approved      bool
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a copy pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/patterns", map[string]interface{}{
				"component_type": componentType,
				"text":           args[0],
				"context":        contextNote,
				"source":         "manual",
				"approved":       approved,
			})
			if err != nil {
				return fmt.Errorf("add failed: %w", err)
			}

			var p Pattern
			if err := json.Unmarshal(resp.Data, &p); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Added pattern %s\n", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&componentType, "component", "c", "", "Component type, e.g. button, error, tooltip (required)")
	cmd.Flags().StringVar(&contextNote, "context", "", "Note on where/why the copy was used")
	cmd.Flags().BoolVar(&approved, "approved", false, "Mark the pattern as approved for reuse")
	_ = cmd.MarkFlagRequired("component")

	return cmd
}

func patternListCmd() *cobra.Command {
	var (
		query  string
		cursor string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your copy patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/patterns?limit=%d", limit)
			if query != "" {
				path += "&q=" + query
			}
			if cursor != "" {
				path += "&cursor=" + cursor
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			var page patternPage
			if err := json.Unmarshal(resp.Data, &page); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(page, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if len(page.Items) == 0 {
				fmt.Println("No patterns found.")
				return nil
			}
			for _, p := range page.Items {
				badges := ""
				if p.Approved {
					badges += " [approved]"
				}
				if p.ABTestWinner {
					badges += " [A/B winner]"
				}
				if p.UXRValidated {
					badges += " [UXR]"
				}
				fmt.Printf("%s  (%s, used %d times)%s\n   %q\n", p.ID, p.ComponentType, p.UsageCount, badges, p.Text)
			}
			if page.HasMore && page.Cursor != "" {
				fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Substring to match against pattern text")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")

	return cmd
}

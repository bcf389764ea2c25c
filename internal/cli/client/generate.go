package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateRequest represents the generate API request.
type GenerateRequest struct {
	WorkspaceID   string `json:"workspace_id"`
	ComponentType string `json:"component_type"`
	Purpose       string `json:"purpose"`
}

// GenerateResult represents the generate API response.
type GenerateResult struct {
	Text         string `json:"text"`
	ContextUsed  string `json:"context_used,omitempty"`
	PatternCount int    `json:"pattern_count"`
	PassageCount int    `json:"passage_count"`
}

// GenerateCmd creates the generate command.
func GenerateCmd() *cobra.Command {
	var (
		workspaceID   string
		componentType string
		showContext   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <purpose>",
		Short: "Generate microcopy",
		Long:  "Generates UX copy suggestions grounded in workspace knowledge and verified patterns.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGenerate(cmd, args[0], workspaceID, componentType, showContext, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID (required)")
	cmd.Flags().StringVarP(&componentType, "component", "c", "", "Component type, e.g. button, error, tooltip (required)")
	cmd.Flags().BoolVar(&showContext, "show-context", false, "Print the retrieval context that grounded the generation")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("component")

	return cmd
}

func runGenerate(cmd *cobra.Command, purpose, workspaceID, componentType string, showContext, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/generate", GenerateRequest{
		WorkspaceID:   workspaceID,
		ComponentType: componentType,
		Purpose:       purpose,
	})
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	var result GenerateResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse generate response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Text)
	fmt.Printf("\n(grounded on %d passages, %d patterns)\n", result.PassageCount, result.PatternCount)
	if showContext && result.ContextUsed != "" {
		fmt.Println("\n--- context ---")
		fmt.Println(result.ContextUsed)
	}

	return nil
}

package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreatePosterInput defines the input schema for design_create_poster.
type CreatePosterInput struct {
	ProductName  string `json:"product_name" jsonschema:"required,The name of the product featured on the poster"`
	Description  string `json:"description" jsonschema:"required,A short marketing description of the product"`
	CallToAction string `json:"call_to_action" jsonschema:"required,The call to action text"`
	SavePath     string `json:"save_path" jsonschema:"required,The local file path where the poster brief will be saved"`
}

const posterPrompt = `You are a graphic design director.
Write a complete poster design brief: headline, sub-headline, visual
concept, layout notes, color palette, and the call-to-action placement.
The brief must be detailed enough for a designer to execute directly.`

// NewCreatePosterHandler produces a poster design brief and saves it to
// disk.
func NewCreatePosterHandler(deps *Dependencies) mcp.ToolHandlerFor[CreatePosterInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreatePosterInput) (*mcp.CallToolResult, any, error) {
		if input.ProductName == "" || input.SavePath == "" {
			return ErrorResult("product_name and save_path are required", ""), nil, nil
		}

		userPrompt := fmt.Sprintf("Product: %s\nDescription: %s\nCall to action: %s",
			input.ProductName, input.Description, input.CallToAction)
		brief, err := deps.Model.GenerateWithSystem(ctx, posterPrompt, userPrompt)
		if err != nil {
			return ErrorResult("Poster brief generation failed", err.Error()), nil, nil
		}

		if dir := filepath.Dir(input.SavePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return ErrorResult("Failed to create output directory", err.Error()), nil, nil
			}
		}
		if err := os.WriteFile(input.SavePath, []byte(brief), 0o644); err != nil {
			return ErrorResult("Failed to save poster brief", err.Error()), nil, nil
		}

		deps.log().Info("poster brief saved", "product", input.ProductName, "path", input.SavePath)
		return JSONResult(map[string]string{
			"product":   input.ProductName,
			"save_path": input.SavePath,
			"brief":     brief,
		}), nil, nil
	}
}

package tools

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewCurrentDirectoryHandler returns the process working directory.
func NewCurrentDirectoryHandler(deps *Dependencies) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		dir, err := os.Getwd()
		if err != nil {
			return ErrorResult("Failed to determine working directory", err.Error()), nil, nil
		}
		return TextResult(dir), nil, nil
	}
}

// ListFilesInput defines the input schema for file_system_list_files.
type ListFilesInput struct {
	DirectoryPath string `json:"directory_path,omitempty" jsonschema:"The path to the directory to inspect (defaults to the working directory)"`
}

type listFilesResult struct {
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
	Dirs      []string `json:"directories"`
}

// NewListFilesHandler lists the entries of a local directory.
func NewListFilesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListFilesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListFilesInput) (*mcp.CallToolResult, any, error) {
		dir := input.DirectoryPath
		if dir == "" {
			dir = "."
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return ErrorResult("Failed to list directory", err.Error()), nil, nil
		}

		out := listFilesResult{Directory: dir, Files: []string{}, Dirs: []string{}}
		for _, e := range entries {
			if e.IsDir() {
				out.Dirs = append(out.Dirs, e.Name())
			} else {
				out.Files = append(out.Files, e.Name())
			}
		}
		return JSONResult(out), nil, nil
	}
}

// WriteTextFileInput defines the input schema for
// file_system_write_text_file.
type WriteTextFileInput struct {
	FilePath string `json:"file_path" jsonschema:"required,The full local path for the file"`
	Content  string `json:"content" jsonschema:"required,The text content to write"`
}

// NewWriteTextFileHandler creates or overwrites a text file.
func NewWriteTextFileHandler(deps *Dependencies) mcp.ToolHandlerFor[WriteTextFileInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input WriteTextFileInput) (*mcp.CallToolResult, any, error) {
		if input.FilePath == "" {
			return ErrorResult("file_path is required", ""), nil, nil
		}

		if dir := filepath.Dir(input.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return ErrorResult("Failed to create parent directory", err.Error()), nil, nil
			}
		}
		if err := os.WriteFile(input.FilePath, []byte(input.Content), 0o644); err != nil {
			return ErrorResult("Failed to write file", err.Error()), nil, nil
		}

		deps.log().Info("wrote text file", "path", input.FilePath, "bytes", len(input.Content))
		return TextResult("Successfully wrote " + input.FilePath), nil, nil
	}
}

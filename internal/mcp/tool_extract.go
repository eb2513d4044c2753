package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// ToolName is the registered name of the extraction tool.
const ToolName = "extract_graphql"

var errOutsideRoot = errors.New("path is outside project root")

// ExtractRequest holds the tool arguments. Either Path, or Text with URI,
// must be set.
type ExtractRequest struct {
	Path string `mapstructure:"path"`
	Text string `mapstructure:"text"`
	URI  string `mapstructure:"uri"`
}

// ExtractResponse is the JSON payload returned by the tool.
type ExtractResponse struct {
	URI       string              `json:"uri"`
	Total     int                 `json:"total"`
	Fragments []document.Fragment `json:"fragments"`
}

// AddExtractTool registers the extract_graphql tool with an MCP server.
func AddExtractTool(s *server.MCPServer, extractor Extractor, projectRoot string) {
	tool := mcp.NewTool(
		ToolName,
		mcp.WithDescription("Extract embedded GraphQL operations from a source file. Returns each fragment's text and its zero-based line/character range in the file."),
		mcp.WithString("path",
			mcp.Description("File path relative to the project root (e.g., 'src/queries.ts')")),
		mcp.WithString("text",
			mcp.Description("File content to extract from instead of reading 'path'")),
		mcp.WithString("uri",
			mcp.Description("File name or URI for 'text'; its extension selects the extraction strategy")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(extractor, projectRoot))
}

// createExtractHandler creates the handler function for the extract_graphql tool.
func createExtractHandler(extractor Extractor, projectRoot string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.GetRawArguments().(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ExtractRequest
		if err := mapstructure.Decode(args, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		text, identity, err := resolveInput(req, projectRoot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fragments, err := extractor.Extract(ctx, text, identity)
		if err != nil {
			// Malformed host source is the caller's problem, not a server failure.
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
		}

		return marshalToolResponse(ExtractResponse{
			URI:       identity,
			Total:     len(fragments),
			Fragments: fragments,
		})
	}
}

// resolveInput returns the text and identity to extract from.
func resolveInput(req ExtractRequest, projectRoot string) (string, string, error) {
	if req.Path != "" {
		abs, err := resolvePath(projectRoot, req.Path)
		if err != nil {
			return "", "", err
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", req.Path, err)
		}
		return string(content), req.Path, nil
	}

	if req.URI == "" {
		return "", "", errors.New("either 'path' or 'uri' with 'text' is required")
	}
	return req.Text, req.URI, nil
}

// resolvePath joins rel onto root and rejects paths escaping it.
func resolvePath(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	abs := filepath.Clean(filepath.Join(absRoot, rel))
	if abs != absRoot && !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, rel)
	}
	return abs, nil
}

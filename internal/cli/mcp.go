package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/gqlextract/internal/cache"
	"github.com/mvp-joe/gqlextract/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for GraphQL extraction",
	Long: `Start the Model Context Protocol (MCP) server that lets coding assistants
extract embedded GraphQL from project files.

The MCP server:
- Provides the extract_graphql tool (by project-relative path or inline text)
- Caches results for unchanged content
- Communicates via stdio (standard MCP transport)

Example:
  gqlextract mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	var extractor mcp.Extractor = cfg.NewExtractor(logger)
	if cfg.Scan.CacheSize > 0 {
		cached, err := cache.New(extractor, cfg.Scan.CacheSize, logger)
		if err != nil {
			return err
		}
		defer cached.Close()
		extractor = cached
	}

	server := mcp.NewServer(extractor, projectPath, Version, logger)
	return server.Serve(cmd.Context())
}

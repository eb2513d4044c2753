// Package mcp exposes GraphQL fragment extraction as an MCP tool over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Extractor is the extraction capability served by the tool.
type Extractor interface {
	Extract(ctx context.Context, text, identity string) ([]document.Fragment, error)
}

// Server manages the MCP server lifecycle.
type Server struct {
	mcp    *server.MCPServer
	logger zerolog.Logger
}

// NewServer creates an MCP server with the extract_graphql tool registered.
// File paths given to the tool are resolved against projectRoot.
func NewServer(extractor Extractor, projectRoot, version string, logger zerolog.Logger) *Server {
	mcpServer := server.NewMCPServer(
		"gqlextract",
		version,
		server.WithToolCapabilities(true),
	)

	AddExtractTool(mcpServer, extractor, projectRoot)

	return &Server{mcp: mcpServer, logger: logger}
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Msg("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-sigCh:
		s.logger.Info().Msg("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

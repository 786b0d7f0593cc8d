// Package mcp implements the Model Context Protocol server, exposing the
// autosuggest resolver to LLMs as a tool.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/suggest/internal/invoke"
	"github.com/jpl-au/suggest/internal/version"
)

// Serve starts the MCP server over stdio, answering with r.
func Serve(r invoke.Resolver) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	s := NewServer(r)
	slog.Info("suggest MCP server ready", "version", version.Short(), "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// NewServer builds the MCP server with its tools registered.
func NewServer(r invoke.Resolver) *server.MCPServer {
	s := server.NewMCPServer(
		"suggest",
		version.Short(),
		server.WithToolCapabilities(true),
	)
	registerTools(s, &handlers{resolver: r})
	return s
}

// handlers provides MCP request handlers with access to the resolver.
type handlers struct {
	resolver invoke.Resolver
}

// registerTools exposes suggest operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("suggest",
			mcp.WithDescription("Autosuggest: return up to 10 items whose name starts with the given phrase, most popular first"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Phrase prefix to match, e.g. \"yose\"")),
		),
		h.suggest,
	)
}

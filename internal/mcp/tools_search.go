// tools_search.go implements the suggest MCP tool.
//
// Results are returned as a pretty-printed JSON array of item objects, the
// same shape the HTTP trigger returns.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/store"
)

// suggest handles suggest tool calls.
func (h *handlers) suggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil //nolint:nilerr
	}

	res, err := h.resolver.ResolveDetail(ctx, query)

	log.Event("mcp:suggest", "search").Query(query).Table(res.Table).Count(len(res.Items)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res.Items)
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in an
// MCP text result. Marshalling errors become MCP error results.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

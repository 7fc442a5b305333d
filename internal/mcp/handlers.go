package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text content block.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

// requirePortfolio reads the portfolio_id argument.
func requirePortfolio(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := strings.TrimSpace(request.GetString("portfolio_id", ""))
	if id == "" {
		return "", errorResult("portfolio_id is required")
	}
	return id, nil
}

package mcp

import (
	"context"

	"github.com/bobmcallan/vire-tracker/internal/config"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// versionResult is the get_version payload.
type versionResult struct {
	config.VersionInfo
	Polling bool     `json:"polling"`
	Symbols []string `json:"symbols"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get vire-tracker version and polling status. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build metadata alongside the scheduler state.
func VersionToolHandler(quotes interfaces.QuoteService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := versionResult{VersionInfo: config.GetVersionInfo(), Symbols: []string{}}
		if quotes != nil {
			st := quotes.Status()
			res.Polling = st.Polling
			res.Symbols = st.Symbols
		}
		return jsonResult(res), nil
	}
}

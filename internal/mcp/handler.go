// Package mcp exposes portfolio and quote lookups as MCP tools.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/config"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates an MCP handler with the tracker's tools registered.
func NewHandler(portfolios interfaces.PortfolioService, quotes interfaces.QuoteService, logger *common.Logger) *Handler {
	mcpSrv := NewServer(portfolios, quotes)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(toolNames)).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		logger:     logger,
	}
}

// NewServer builds the MCP server and registers every tool.
func NewServer(portfolios interfaces.PortfolioService, quotes interfaces.QuoteService) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer(
		"vire-tracker",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	RegisterTools(mcpSrv, portfolios, quotes)
	mcpSrv.AddTool(VersionTool(), VersionToolHandler(quotes))
	return mcpSrv
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

package mcp

import (
	"context"
	"strings"

	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var toolNames = []string{"list_portfolios", "get_holdings", "get_valuation", "get_quote", "get_version"}

// RegisterTools adds the portfolio and quote tools to s.
func RegisterTools(s *server.MCPServer, portfolios interfaces.PortfolioService, quotes interfaces.QuoteService) {
	s.AddTool(mcp.NewTool("list_portfolios",
		mcp.WithDescription("List the portfolios that have recorded transactions."),
	), listPortfoliosHandler(portfolios))

	s.AddTool(mcp.NewTool("get_holdings",
		mcp.WithDescription("Get open positions with weighted-average cost for a portfolio."),
		mcp.WithString("portfolio_id", mcp.Required(), mcp.Description("Portfolio identifier")),
	), holdingsHandler(portfolios))

	s.AddTool(mcp.NewTool("get_valuation",
		mcp.WithDescription("Value a portfolio against the latest cached quotes: total value, cost, day change and gain."),
		mcp.WithString("portfolio_id", mcp.Required(), mcp.Description("Portfolio identifier")),
	), valuationHandler(portfolios))

	s.AddTool(mcp.NewTool("get_quote",
		mcp.WithDescription("Get the cached quote for a ticker symbol, fetching it if it is not cached."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
	), quoteHandler(quotes))
}

func listPortfoliosHandler(svc interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := svc.ListPortfolios(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(ids), nil
	}
}

func holdingsHandler(svc interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, bad := requirePortfolio(r)
		if bad != nil {
			return bad, nil
		}
		hs, err := svc.Holdings(ctx, id)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(hs), nil
	}
}

func valuationHandler(svc interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, bad := requirePortfolio(r)
		if bad != nil {
			return bad, nil
		}
		v, err := svc.Valuation(ctx, id)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(v), nil
	}
}

func quoteHandler(quotes interfaces.QuoteService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := strings.ToUpper(strings.TrimSpace(r.GetString("symbol", "")))
		if symbol == "" {
			return errorResult("symbol is required"), nil
		}

		q, ok := quotes.GetQuote(symbol)
		if !ok {
			q, ok = quotes.FetchQuotes(ctx, []string{symbol})[symbol]
		}
		if !ok {
			return errorResult("no quote available for " + symbol), nil
		}
		return jsonResult(q), nil
	}
}

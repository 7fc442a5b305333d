package server

import (
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/portfolios", s.handlePortfolios)
	mux.HandleFunc("/api/portfolios/", s.handlePortfolioRoutes)
	mux.HandleFunc("/api/quotes", s.handleQuotes)
	mux.HandleFunc("/api/quotes/", s.handleQuoteRoutes)
	mux.HandleFunc("/api/logs/", s.handleLogRoutes)

	// 404 handler for everything else
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handlePortfolios serves GET /api/portfolios.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.PortfolioHandler.List, nil)
}

// handlePortfolioRoutes dispatches /api/portfolios/{id}[/{action}].
func (s *Server) handlePortfolioRoutes(w http.ResponseWriter, r *http.Request) {
	ph := s.app.PortfolioHandler
	segs := splitPath(r.URL.EscapedPath(), "/api/portfolios/")

	switch len(segs) {
	case 1:
		id := segs[0]
		RouteResourceItem(w, r,
			func(w http.ResponseWriter, r *http.Request) { ph.Valuation(w, r, id) },
			nil,
			func(w http.ResponseWriter, r *http.Request) { ph.Delete(w, r, id) },
		)
	case 2:
		id := segs[0]
		switch segs[1] {
		case "holdings":
			RouteByMethod(w, r, MethodRouter{
				"GET": func(w http.ResponseWriter, r *http.Request) { ph.Holdings(w, r, id) },
			})
		case "valuation":
			RouteByMethod(w, r, MethodRouter{
				"GET": func(w http.ResponseWriter, r *http.Request) { ph.Valuation(w, r, id) },
			})
		case "import":
			RouteByMethod(w, r, MethodRouter{
				"POST": func(w http.ResponseWriter, r *http.Request) { ph.Import(w, r, id) },
			})
		case "watch":
			RouteByMethod(w, r, MethodRouter{
				"POST": func(w http.ResponseWriter, r *http.Request) { ph.Watch(w, r, id) },
			})
		default:
			s.handleNotFound(w, r)
		}
	default:
		s.handleNotFound(w, r)
	}
}

// handleQuotes serves GET /api/quotes.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{"GET": s.app.QuotesHandler.Status})
}

// handleQuoteRoutes dispatches /api/quotes/refresh, /api/quotes/watch and
// /api/quotes/{symbol}.
func (s *Server) handleQuoteRoutes(w http.ResponseWriter, r *http.Request) {
	qh := s.app.QuotesHandler
	segs := splitPath(r.URL.EscapedPath(), "/api/quotes/")
	if len(segs) != 1 {
		s.handleNotFound(w, r)
		return
	}

	switch segs[0] {
	case "refresh":
		RouteByMethod(w, r, MethodRouter{"POST": qh.Refresh})
	case "watch":
		RouteByMethod(w, r, MethodRouter{
			"POST":   qh.Watch,
			"DELETE": qh.Unwatch,
		})
	default:
		symbol := segs[0]
		RouteByMethod(w, r, MethodRouter{
			"GET": func(w http.ResponseWriter, r *http.Request) { qh.Get(w, r, symbol) },
		})
	}
}

// handleLogRoutes serves GET /api/logs/{correlation_id}.
func (s *Server) handleLogRoutes(w http.ResponseWriter, r *http.Request) {
	segs := splitPath(r.URL.EscapedPath(), "/api/logs/")
	if len(segs) != 1 {
		s.handleNotFound(w, r)
		return
	}
	id := segs[0]
	RouteByMethod(w, r, MethodRouter{
		"GET": func(w http.ResponseWriter, r *http.Request) { s.app.LogsHandler.Get(w, r, id) },
	})
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}

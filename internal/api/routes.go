// Route registration and go-chi router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/matiasleandrokruk/summarygate/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/summarygate/internal/api/middleware"
)

// Deps are the collaborators the router mounts. Metrics and MCP are optional:
// a nil handler leaves the route unregistered.
type Deps struct {
	Service    handlers.GatewayService
	BackendURL string
	Logger     *zap.Logger
	Metrics    http.Handler
	MCP        http.Handler
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(chimiddleware.RealIP)
	r.Use(apmiddleware.RequestID)
	r.Use(apmiddleware.AccessLog(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(apmiddleware.CORS)

	gateway := handlers.NewGatewayHandler(deps.Service, deps.BackendURL)
	r.Get("/", gateway.Root)
	r.Get("/health", gateway.Health)
	r.Post("/summarize/", gateway.Summarize)
	r.Post("/summarize", gateway.Summarize)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	if deps.MCP != nil {
		r.Handle("/mcp", deps.MCP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not Found"}`)) //nolint:errcheck
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"detail":"Method Not Allowed"}`)) //nolint:errcheck
	})

	return r
}

package server

import (
	"log/slog"
	"net/http"

	"fashion-dashboard/internal/handlers"
	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/observability"
	"fashion-dashboard/internal/services"
)

const unmatchedRoute = "unmatched"

type Server struct {
	analytics   *services.Analytics
	metrics     *observability.Metrics
	metricsPath string
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// TemplateHandlers render the full pages.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
	Insights  http.HandlerFunc
}

type Option func(*Server)

// WithMetrics exposes m at path.
func WithMetrics(m *observability.Metrics, path string) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

func NewServer(analytics *services.Analytics, generator *insights.Generator, logger *slog.Logger, templateHandlers *TemplateHandlers, opts ...Option) *Server {
	s := &Server{
		analytics: analytics,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.apiHandlers = handlers.NewAPIHandlers(analytics, generator, s.metrics, logger)
	s.sseHandlers = handlers.NewSSEHandlers(analytics, generator, s.metrics, logger)
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Pages
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /insights", templateHandlers.Insights)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	if s.metrics != nil && s.metricsPath != "" {
		s.mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /api/top-brands", s.apiHandlers.HandleTopBrands)
	s.mux.HandleFunc("GET /api/bottom-brands", s.apiHandlers.HandleBottomBrands)
	s.mux.HandleFunc("GET /api/inventory-turnover", s.apiHandlers.HandleInventoryTurnover)
	s.mux.HandleFunc("GET /api/sell-through", s.apiHandlers.HandleSellThrough)
	s.mux.HandleFunc("GET /api/stock-outs", s.apiHandlers.HandleStockOuts)
	s.mux.HandleFunc("GET /api/sales-contribution", s.apiHandlers.HandleSalesContribution)
	s.mux.HandleFunc("GET /api/insights", s.apiHandlers.HandleInsights)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/filters", s.sseHandlers.HandleFilters)
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/insights", s.sseHandlers.HandleInsights)
}

// Route returns the pattern r is routed to, for use as a metrics label.
func (s *Server) Route(r *http.Request) string {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"fashion-dashboard/internal/errors"
	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/models"
	"fashion-dashboard/internal/observability"
	"fashion-dashboard/internal/services"
)

const (
	cacheControl = "private, max-age=300"

	noDataMessage    = "No data available for the selected filters."
	noStockOutsAlert = "No stock-out alerts for the selected filters."
)

type sectionResponse struct {
	Filter  models.FilterSpec `json:"filter"`
	Rows    any               `json:"rows"`
	Empty   bool              `json:"empty"`
	Message string            `json:"message,omitempty"`
}

func newSection(spec models.FilterSpec, rows any, n int, emptyMessage string) sectionResponse {
	resp := sectionResponse{Filter: spec, Rows: rows, Empty: n == 0}
	if resp.Empty {
		resp.Message = emptyMessage
	}
	return resp
}

type insightsResponse struct {
	Filter  models.FilterSpec `json:"filter"`
	Results []insights.Result `json:"results"`
}

type APIHandlers struct {
	reporter
	generator *insights.Generator
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, generator *insights.Generator, metrics *observability.Metrics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		reporter:  reporter{analytics: analytics, metrics: metrics},
		generator: generator,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

// view resolves the request's filter and returns the matching records.
func (h *APIHandlers) view(w http.ResponseWriter, r *http.Request) (models.FilterSpec, []models.Record, bool) {
	spec, err := h.resolveKnown(r)
	if err != nil {
		h.fail(w, r, err)
		return models.FilterSpec{}, nil, false
	}
	return spec, h.analytics.View(spec), true
}

func writeCached(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	spec, err := h.resolveKnown(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCached(w, map[string]any{
		"filter":  spec,
		"options": h.analytics.Options(spec),
	})
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	spec, err := h.resolveKnown(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCached(w, h.report(spec))
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	trend := services.MonthlySalesTrend(view)
	writeCached(w, newSection(spec, trend, len(trend.Points), noDataMessage))
}

func (h *APIHandlers) HandleTopBrands(w http.ResponseWriter, r *http.Request) {
	h.handleRanking(w, r, services.TopBrands)
}

func (h *APIHandlers) HandleBottomBrands(w http.ResponseWriter, r *http.Request) {
	h.handleRanking(w, r, services.BottomBrands)
}

func (h *APIHandlers) handleRanking(w http.ResponseWriter, r *http.Request, rank func([]models.Record, int) []models.BrandTotal) {
	limit, err := limitParam(r, services.RankingSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	rows := rank(view, limit)
	writeCached(w, newSection(spec, rows, len(rows), noDataMessage))
}

func (h *APIHandlers) HandleInventoryTurnover(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	rows := services.InventoryTurnover(view)
	writeCached(w, newSection(spec, rows, len(rows), noDataMessage))
}

func (h *APIHandlers) HandleSellThrough(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	rows := services.SellThroughRate(view)
	writeCached(w, newSection(spec, map[string]any{
		"rates": rows,
		"pivot": services.SellThroughPivot(rows),
	}, len(rows), noDataMessage))
}

func (h *APIHandlers) HandleStockOuts(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	rows := services.StockOutAlerts(view)
	writeCached(w, newSection(spec, rows, len(rows), noStockOutsAlert))
}

func (h *APIHandlers) HandleSalesContribution(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	rows, ok := services.SalesContribution(view)
	if !ok {
		rows = []models.ContributionRow{}
	}
	writeCached(w, newSection(spec, rows, len(rows), noDataMessage))
}

// HandleInsights answers every insight question for the filtered view.
// Individual failures are reported per question; the request only fails
// when every question failed.
func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	spec, view, ok := h.view(w, r)
	if !ok {
		return
	}

	clearWriteDeadline(w, h.logger)
	results := h.generator.Generate(r.Context(), view, nil)

	if err := allFailed(results); err != nil {
		h.fail(w, r, errors.UpstreamWrap(err, "insight generation failed for every question"))
		return
	}

	errors.WriteSuccess(w, insightsResponse{Filter: spec, Results: results})
}

func allFailed(results []insights.Result) error {
	if len(results) == 0 {
		return nil
	}
	for _, res := range results {
		if res.Status != insights.StatusFailed {
			return nil
		}
	}
	return &insightError{kind: results[0].ErrorKind, message: results[0].Error}
}

type insightError struct {
	kind    insights.ErrorKind
	message string
}

func (e *insightError) Error() string {
	return string(e.kind) + ": " + e.message
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	records := len(h.analytics.Records())
	if records == 0 {
		h.fail(w, r, errors.ServiceUnavailable("no dataset loaded"))
		return
	}

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   records,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"fashion-dashboard/internal/errors"
	"fashion-dashboard/internal/models"
	"fashion-dashboard/internal/observability"
	"fashion-dashboard/internal/services"
)

// filterRequest reads the client's filter from datastar signals when the
// request carries them, otherwise from query parameters. A query key that is
// present with only empty values selects the empty set.
func filterRequest(r *http.Request) (models.FilterRequest, error) {
	q := r.URL.Query()

	if q.Has("datastar") {
		var req models.FilterRequest
		if err := datastar.ReadSignals(r, &req); err != nil {
			return models.FilterRequest{}, errors.BadRequestWrap(err, "invalid datastar signals")
		}
		return req, nil
	}

	req := models.FilterRequest{
		MarketingGroup:     q.Get("marketing_group"),
		ClassifiedCategory: q.Get("classified_category"),
	}
	if values, ok := q["month"]; ok {
		req.Months = nonEmpty(values)
	}
	if values, ok := q["category"]; ok {
		req.Categories = nonEmpty(values)
	}
	return req, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// limitParam parses the optional "limit" query parameter.
func limitParam(r *http.Request, defaultValue int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.BadRequest("limit must be a positive integer")
	}
	return n, nil
}

// reporter resolves filters and builds reports, recording metrics.
type reporter struct {
	analytics *services.Analytics
	metrics   *observability.Metrics
}

func (rp reporter) resolve(r *http.Request) (models.FilterSpec, error) {
	req, err := filterRequest(r)
	if err != nil {
		return models.FilterSpec{}, err
	}
	return rp.analytics.ResolveFilter(req), nil
}

// resolveKnown is resolve for the JSON API: an explicitly requested marketing
// group or classified category must exist in the dataset.
func (rp reporter) resolveKnown(r *http.Request) (models.FilterSpec, error) {
	req, err := filterRequest(r)
	if err != nil {
		return models.FilterSpec{}, err
	}

	opts := rp.analytics.Options(models.FilterSpec{})
	if req.MarketingGroup != "" && !slices.Contains(opts.MarketingGroups, req.MarketingGroup) {
		return models.FilterSpec{}, errors.NotFound(fmt.Sprintf("unknown marketing group %q", req.MarketingGroup))
	}
	if req.ClassifiedCategory != "" && !slices.Contains(opts.ClassifiedCategories, req.ClassifiedCategory) {
		return models.FilterSpec{}, errors.NotFound(fmt.Sprintf("unknown classified category %q", req.ClassifiedCategory))
	}
	return rp.analytics.ResolveFilter(req), nil
}

func (rp reporter) report(spec models.FilterSpec) models.Report {
	start := time.Now()
	report := rp.analytics.Report(spec)
	rp.metrics.ObserveReport(report.RecordCount, time.Since(start))
	return report
}

// clearWriteDeadline lifts the server write timeout for handlers that wait on
// insight completions, which routinely take longer.
func clearWriteDeadline(w http.ResponseWriter, logger *slog.Logger) {
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("clear write deadline", "error", err)
	}
}

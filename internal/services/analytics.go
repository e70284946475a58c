package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fashion-dashboard/internal/models"
)

// Analytics owns the immutable dataset and derives filtered reports from it.
type Analytics struct {
	mu       sync.RWMutex
	records  []models.Record
	source   string
	loadedAt time.Time
	logger   *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		records: []models.Record{},
		logger:  slog.Default(),
	}
}

// SetData replaces the dataset. Callers must not modify data afterwards.
func (a *Analytics) SetData(data []models.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = data
	a.loadedAt = time.Now()
}

func (a *Analytics) LoadFromFile(ctx context.Context, filename string, opts LoadOptions) error {
	start := time.Now()
	a.logger.Info("loading dataset", "filename", filename)

	records, err := LoadRecords(ctx, filename, opts)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	a.SetData(records)

	a.mu.Lock()
	a.source = filename
	a.mu.Unlock()

	duration := time.Since(start)
	a.logger.Info("dataset loaded",
		"records", len(records),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))

	return nil
}

// Records returns the dataset. The slice is shared and must be treated as
// read-only.
func (a *Analytics) Records() []models.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records
}

func (a *Analytics) ResolveFilter(req models.FilterRequest) models.FilterSpec {
	return ResolveFilter(a.Records(), req)
}

func (a *Analytics) Options(spec models.FilterSpec) models.FilterOptions {
	return Options(a.Records(), spec)
}

// View returns the records matching spec.
func (a *Analytics) View(spec models.FilterSpec) []models.Record {
	return Filter(a.Records(), spec)
}

func (a *Analytics) Report(spec models.FilterSpec) models.Report {
	return BuildReport(spec, a.View(spec))
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	records := a.Records()

	a.mu.RLock()
	source, loadedAt := a.source, a.loadedAt
	a.mu.RUnlock()

	return map[string]any{
		"record_count":          len(records),
		"source":                source,
		"loaded_at":             loadedAt,
		"marketing_groups":      len(uniqueValues(records, func(r models.Record) string { return r.MarketingGroup })),
		"classified_categories": len(uniqueValues(records, func(r models.Record) string { return r.ClassifiedCategory })),
		"brands":                len(uniqueValues(records, func(r models.Record) string { return r.Brand })),
		"months":                len(uniqueValues(records, func(r models.Record) string { return r.MonthName })),
		"total_sold":            TotalSold(records),
	}
}

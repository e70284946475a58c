package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"fashion-dashboard/internal/models"
	"fashion-dashboard/internal/services"
	"fashion-dashboard/internal/ui/templates"
)

// pageHandlers render the full pages seeded with the default filter. Later
// filter changes arrive over SSE.
type pageHandlers struct {
	analytics *services.Analytics
	questions []string
	logger    *slog.Logger
}

func (p *pageHandlers) view() templates.PageView {
	spec := p.analytics.ResolveFilter(models.FilterRequest{})
	return templates.PageView{
		Options:   p.analytics.Options(spec),
		Filter:    spec,
		Questions: p.questions,
	}
}

func (p *pageHandlers) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(ctx, w); err != nil {
		p.logger.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (p *pageHandlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, templates.Dashboard(p.view()))
}

func (p *pageHandlers) handleInsights(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, templates.Insights(p.view()))
}

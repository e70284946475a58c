// Package templates renders the dashboard pages and the fragments patched
// into them over SSE.
package templates

import (
	"context"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/models"
)

const (
	PageDashboard = "dashboard"
	PageInsights  = "insights"
)

// FilterPanelView drives the sidebar controls. Refresh is the SSE endpoint
// called when a control changes.
type FilterPanelView struct {
	Options models.FilterOptions
	Filter  models.FilterSpec
	Refresh string
}

var funcs = template.FuncMap{
	"selected": func(values []string, v string) bool {
		return slices.Contains(values, v)
	},
}

var tmpl = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "filters"}}<form id="filter-panel" onsubmit="return false">
<h2>🏮 Filter Options</h2>
<label>Select Marketing Group
<select data-bind="marketingGroup" data-on:change="$months = null; $categories = null; @get('{{.Refresh}}')">
{{range .Options.MarketingGroups}}<option value="{{.}}"{{if eq . $.Filter.MarketingGroup}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
<label>Select Classified Category
<select data-bind="classifiedCategory" data-on:change="$months = null; $categories = null; @get('{{.Refresh}}')">
{{range .Options.ClassifiedCategories}}<option value="{{.}}"{{if eq . $.Filter.ClassifiedCategory}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
<label>Select Months
<select multiple data-bind="months" data-on:change="$categories = null; @get('{{.Refresh}}')">
{{range .Options.Months}}<option value="{{.}}"{{if selected $.Filter.Months .}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
<label>Select Categories
<select multiple data-bind="categories" data-on:change="@get('{{.Refresh}}')">
{{range .Options.Categories}}<option value="{{.}}"{{if selected $.Filter.Categories .}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
</form>
{{end}}

{{define "section"}}<div id="{{.ID}}" class="card">
<h2>{{.Title}}</h2>
{{if .Empty}}<p class="placeholder">{{.EmptyMessage}}</p>
{{else}}{{if .Chart}}<canvas id="chart-{{.Chart}}" height="120"></canvas>
{{end}}<table class="modern-table">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Truncated}}<p class="placeholder">Showing {{len .Rows}} of {{.Total}} rows.</p>{{end}}
{{end}}</div>
{{end}}

{{define "sections"}}<div id="dashboard-content">
{{range .}}{{template "section" .}}{{end}}</div>
{{end}}

{{define "insight"}}<section id="{{.ID}}" class="card">
<h2>{{.Question}}</h2>
{{if .Pending}}<p class="placeholder">Generating analysis…</p>
{{else if eq .Result.Status "ok"}}<div class="insight-text">{{.Result.Text}}</div>
{{else if eq .Result.Status "no_data"}}<p class="placeholder">No data available for the selected filters.</p>
{{else}}<p class="insight-error">An error occurred while generating the analysis ({{.Result.ErrorKind}}): {{.Result.Error}}</p>
{{end}}</section>
{{end}}

{{define "insights"}}<div id="insights-content">
{{range .}}{{template "insight" .}}{{end}}</div>
{{end}}

`))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

func Dashboard(v PageView) templ.Component {
	v.Page = PageDashboard
	if v.Title == "" {
		v.Title = "Sales Dashboard"
	}
	return dashboardPage(v)
}

func Insights(v PageView) templ.Component {
	v.Page = PageInsights
	if v.Title == "" {
		v.Title = "Executive Insights"
	}
	return insightsPage(v)
}

func FilterPanel(v FilterPanelView) templ.Component {
	return render("filters", v)
}

func Report(report models.Report) templ.Component {
	return render("sections", Sections(report))
}

// InsightList renders every question in its pending state.
func InsightList(questions []string) templ.Component {
	views := make([]InsightView, len(questions))
	for i, q := range questions {
		views[i] = InsightView{Index: i, Question: q, Pending: true}
	}
	return render("insights", views)
}

func Insight(index int, res insights.Result) templ.Component {
	return render("insight", InsightView{Index: index, Question: res.Question, Result: res})
}

// String renders c into a string, for SSE element patches.
func String(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

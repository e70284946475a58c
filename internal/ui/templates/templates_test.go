package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/models"
)

func testPageView() PageView {
	return PageView{
		Options: models.FilterOptions{
			MarketingGroups:      []string{"Women", "Men"},
			ClassifiedCategories: []string{"Ethnic"},
			Months:               []string{"January", "February"},
			Categories:           []string{"Kurta"},
		},
		Filter: models.FilterSpec{
			MarketingGroup:     "Women",
			ClassifiedCategory: "Ethnic",
			Months:             []string{"January"},
			Categories:         []string{"Kurta"},
		},
		Questions: []string{"Which brands sell best?"},
	}
}

func TestDashboard(t *testing.T) {
	html, err := String(context.Background(), Dashboard(testPageView()))
	require.NoError(t, err)

	for _, want := range []string{
		"<h1>Sales Dashboard</h1>",
		`id="filter-panel"`,
		`<option value="Women" selected>Women</option>`,
		`<option value="February">February</option>`,
		"/sse/dashboard",
		"marketingGroup",
	} {
		assert.Contains(t, html, want)
	}
}

func TestInsightsPage(t *testing.T) {
	html, err := String(context.Background(), Insights(testPageView()))
	require.NoError(t, err)

	assert.Contains(t, html, "Executive Insights and Recommendations")
	assert.Contains(t, html, "Which brands sell best?")
	assert.Contains(t, html, `id="insight-0"`)
	assert.Contains(t, html, "/sse/insights")
}

func TestPageShells(t *testing.T) {
	dashboard, err := String(context.Background(), Dashboard(testPageView()))
	require.NoError(t, err)
	insightsPage, err := String(context.Background(), Insights(testPageView()))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dashboard, "<!doctype html>"))
	assert.Contains(t, dashboard, "<title>Sales Dashboard · Fashion Sales Dashboard</title>")
	assert.Contains(t, dashboard, `<a href="/" aria-current="page">Sales Dashboard</a>`)
	assert.Contains(t, dashboard, `data-init="@get('/sse/dashboard')"`)
	assert.Contains(t, dashboard, `data-signals="{&#34;marketingGroup&#34;:&#34;Women&#34;`)
	assert.Contains(t, dashboard, "window.renderCharts($trendData, $sellThroughData)")

	assert.Contains(t, insightsPage, "<title>Executive Insights · Fashion Sales Dashboard</title>")
	assert.Contains(t, insightsPage, `<a href="/insights" aria-current="page">`)
	assert.NotContains(t, insightsPage, "data-init")
	assert.Contains(t, insightsPage, "@get('/sse/filters')")
}

func TestPageShells_EscapeQuestions(t *testing.T) {
	v := testPageView()
	v.Questions = []string{"<b>Which</b> brands?"}

	html, err := String(context.Background(), Insights(v))
	require.NoError(t, err)

	assert.Contains(t, html, `<section id="insight-0" class="card"><h2>&lt;b&gt;Which&lt;/b&gt; brands?</h2></section>`)
}

func TestReport_Sections(t *testing.T) {
	report := models.Report{
		RecordCount: 2,
		MonthlySales: models.TrendMatrix{
			Points: []models.TrendPoint{{Month: "January", Brand: "Aurelia", QuantitySold: 10}},
			Months: []string{"January"},
			Brands: []string{"Aurelia"},
			Values: [][]float64{{10}},
		},
		TopBrands:       []models.BrandTotal{{Brand: "Aurelia", QuantitySold: 10}},
		BottomBrands:    []models.BrandTotal{{Brand: "Aurelia", QuantitySold: 10}},
		SellThrough:     []models.SellThroughRow{{Brand: "Aurelia", Category: "Kurta", SellThroughRate: 66.6666}},
		Contribution:    []models.ContributionRow{{Brand: "Aurelia", Category: "Kurta", SalesContribution: 100}},
		HasContribution: true,
	}

	html, err := String(context.Background(), Report(report))
	require.NoError(t, err)

	assert.Contains(t, html, `id="dashboard-content"`)
	assert.Contains(t, html, "Sales Trend Analysis by Month")
	assert.Contains(t, html, `id="chart-trend"`)
	assert.Contains(t, html, "66.67%")
	assert.Contains(t, html, "100.00%")
	assert.Contains(t, html, noStockOutsText)
	assert.Equal(t, 1, strings.Count(html, noDataMessage), "only inventory turnover should be empty")
}

func TestReport_EmptyRendersPlaceholders(t *testing.T) {
	html, err := String(context.Background(), Report(models.Report{}))
	require.NoError(t, err)

	assert.Equal(t, 6, strings.Count(html, noDataMessage))
	assert.Equal(t, 1, strings.Count(html, noStockOutsText))
	assert.NotContains(t, html, "<table")
}

func TestSections_TruncatesLongTables(t *testing.T) {
	rows := make([]models.StockOutRow, MaxTableRows+5)
	sections := Sections(models.Report{StockOuts: rows})

	stock := sections[5]
	assert.Equal(t, "section-stock-outs", stock.ID)
	assert.Len(t, stock.Rows, MaxTableRows)
	assert.True(t, stock.Truncated())
}

func TestInsight(t *testing.T) {
	tests := []struct {
		name string
		res  insights.Result
		want string
	}{
		{"ok", insights.Result{Question: "q", Status: insights.StatusOK, Text: "Restock <b>kurtas</b>"}, "Restock &lt;b&gt;kurtas&lt;/b&gt;"},
		{"no data", insights.Result{Question: "q", Status: insights.StatusNoData}, noDataMessage},
		{"failed", insights.Result{Question: "q", Status: insights.StatusFailed, ErrorKind: insights.KindAuth, Error: errors.New("bad key").Error()}, "An error occurred while generating the analysis (auth): bad key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := String(context.Background(), Insight(3, tt.res))
			require.NoError(t, err)
			assert.Contains(t, html, `id="insight-3"`)
			assert.Contains(t, html, tt.want)
		})
	}
}

func TestPageView_Signals(t *testing.T) {
	v := PageView{Filter: models.FilterSpec{MarketingGroup: "Women"}}

	assert.JSONEq(t, `{"marketingGroup":"Women","classifiedCategory":"","months":[],"categories":[]}`, v.Signals())
}

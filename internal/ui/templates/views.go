package templates

import (
	"encoding/json"
	"fmt"
	"strconv"

	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/models"
)

const (
	noDataMessage   = "No data available for the selected filters."
	noStockOutsText = "No stock-out alerts for the selected filters."

	// MaxTableRows caps rendered rows per section; charts get the full data.
	MaxTableRows = 200
)

// PageView is the data behind a full page render.
type PageView struct {
	Title     string
	Page      string
	Options   models.FilterOptions
	Filter    models.FilterSpec
	Questions []string
}

// Signals returns the datastar signal object that seeds the filter controls.
func (v PageView) Signals() string {
	b, err := json.Marshal(models.FilterRequest{
		MarketingGroup:     v.Filter.MarketingGroup,
		ClassifiedCategory: v.Filter.ClassifiedCategory,
		Months:             nonNil(v.Filter.Months),
		Categories:         nonNil(v.Filter.Categories),
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// SectionView is one dashboard table.
type SectionView struct {
	ID           string
	Title        string
	Chart        string
	Columns      []string
	Rows         [][]string
	Total        int
	EmptyMessage string
}

func (s SectionView) Empty() bool {
	return s.Total == 0
}

func (s SectionView) Truncated() bool {
	return s.Total > len(s.Rows)
}

// InsightView is one question on the insights page.
type InsightView struct {
	Index    int
	Question string
	Pending  bool
	Result   insights.Result
}

func (v InsightView) ID() string {
	return "insight-" + strconv.Itoa(v.Index)
}

// Sections lays report out as the seven dashboard sections, in page order.
func Sections(report models.Report) []SectionView {
	sections := []SectionView{
		{
			ID:           "section-monthly-sales",
			Title:        "Sales Trend Analysis by Month",
			Chart:        "trend",
			Columns:      []string{"Month_Name", "Brand", "Quantity_Sold"},
			Total:        len(report.MonthlySales.Points),
			EmptyMessage: noDataMessage,
		},
		{
			ID:           "section-top-brands",
			Title:        "Top 10 Brands by Category",
			Columns:      []string{"Brand", "Quantity_Sold"},
			Total:        len(report.TopBrands),
			EmptyMessage: noDataMessage,
		},
		{
			ID:           "section-bottom-brands",
			Title:        "Bottom 10 Brands by Category",
			Columns:      []string{"Brand", "Quantity_Sold"},
			Total:        len(report.BottomBrands),
			EmptyMessage: noDataMessage,
		},
		{
			ID:           "section-inventory-turnover",
			Title:        "Inventory Turnover Analysis",
			Columns:      []string{"Brand", "Category", "Inventory_Turnover"},
			Total:        len(report.InventoryTurnover),
			EmptyMessage: noDataMessage,
		},
		{
			ID:           "section-sell-through",
			Title:        "Sell-Through Rate Analysis",
			Chart:        "sellThrough",
			Columns:      []string{"Brand", "Category", "Sell_Through_Rate"},
			Total:        len(report.SellThrough),
			EmptyMessage: noDataMessage,
		},
		{
			ID:           "section-stock-outs",
			Title:        "Stock-Out Alerts",
			Columns:      []string{"Brand", "Category", "Quantity_In_Stock"},
			Total:        len(report.StockOuts),
			EmptyMessage: noStockOutsText,
		},
		{
			ID:           "section-sales-contribution",
			Title:        "Sales Contribution by Brand",
			Columns:      []string{"Brand", "Category", "Sales_Contribution"},
			Total:        len(report.Contribution),
			EmptyMessage: noDataMessage,
		},
	}

	sections[0].Rows = limitRows(len(report.MonthlySales.Points), func(i int) []string {
		p := report.MonthlySales.Points[i]
		return []string{p.Month, p.Brand, quantity(p.QuantitySold)}
	})
	sections[1].Rows = brandRows(report.TopBrands)
	sections[2].Rows = brandRows(report.BottomBrands)
	sections[3].Rows = limitRows(len(report.InventoryTurnover), func(i int) []string {
		r := report.InventoryTurnover[i]
		return []string{r.Brand, r.Category, ratio(r.InventoryTurnover)}
	})
	sections[4].Rows = limitRows(len(report.SellThrough), func(i int) []string {
		r := report.SellThrough[i]
		return []string{r.Brand, r.Category, percent(r.SellThroughRate)}
	})
	sections[5].Rows = limitRows(len(report.StockOuts), func(i int) []string {
		r := report.StockOuts[i]
		return []string{r.Brand, r.Category, quantity(r.QuantityInStock)}
	})
	if report.HasContribution {
		sections[6].Rows = limitRows(len(report.Contribution), func(i int) []string {
			r := report.Contribution[i]
			return []string{r.Brand, r.Category, percent(r.SalesContribution)}
		})
	} else {
		sections[6].Total = 0
	}

	return sections
}

func brandRows(totals []models.BrandTotal) [][]string {
	return limitRows(len(totals), func(i int) []string {
		return []string{totals[i].Brand, quantity(totals[i].QuantitySold)}
	})
}

func limitRows(n int, row func(int) []string) [][]string {
	if n > MaxTableRows {
		n = MaxTableRows
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = row(i)
	}
	return rows
}

func quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ratio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package services

import (
	"slices"
	"strings"

	"fashion-dashboard/internal/models"
)

const RankingSize = 10

var calendarMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// TotalSold sums QuantitySold over view.
func TotalSold(view []models.Record) float64 {
	var total float64
	for _, r := range view {
		total += r.QuantitySold
	}
	return total
}

// MonthlySalesTrend sums QuantitySold per (month, brand) and reshapes the
// result into a month × brand matrix with missing combinations set to 0.
// Months follow the calendar when every name is a known month, otherwise
// first appearance; brands follow first appearance.
func MonthlySalesTrend(view []models.Record) models.TrendMatrix {
	type key struct{ month, brand string }

	sums := make(map[key]float64)
	var order []key
	for _, r := range view {
		k := key{r.MonthName, r.Brand}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.QuantitySold
	}

	matrix := models.TrendMatrix{
		Points: make([]models.TrendPoint, 0, len(order)),
		Months: orderMonths(uniqueValues(view, func(r models.Record) string { return r.MonthName })),
		Brands: uniqueValues(view, func(r models.Record) string { return r.Brand }),
	}

	monthIdx := indexOf(matrix.Months)
	brandIdx := indexOf(matrix.Brands)

	slices.SortStableFunc(order, func(a, b key) int {
		return monthIdx[a.month] - monthIdx[b.month]
	})

	matrix.Values = make([][]float64, len(matrix.Months))
	for i := range matrix.Values {
		matrix.Values[i] = make([]float64, len(matrix.Brands))
	}
	for _, k := range order {
		matrix.Points = append(matrix.Points, models.TrendPoint{Month: k.month, Brand: k.brand, QuantitySold: sums[k]})
		matrix.Values[monthIdx[k.month]][brandIdx[k.brand]] = sums[k]
	}
	return matrix
}

func orderMonths(months []string) []string {
	for _, m := range months {
		if _, ok := calendarMonths[strings.ToLower(strings.TrimSpace(m))]; !ok {
			return months
		}
	}
	ordered := slices.Clone(months)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return calendarMonths[strings.ToLower(strings.TrimSpace(a))] - calendarMonths[strings.ToLower(strings.TrimSpace(b))]
	})
	return ordered
}

// BrandTotals sums QuantitySold per brand in first-appearance order.
func BrandTotals(view []models.Record) []models.BrandTotal {
	idx := make(map[string]int)
	totals := make([]models.BrandTotal, 0)
	for _, r := range view {
		i, ok := idx[r.Brand]
		if !ok {
			i = len(totals)
			idx[r.Brand] = i
			totals = append(totals, models.BrandTotal{Brand: r.Brand})
		}
		totals[i].QuantitySold += r.QuantitySold
	}
	return totals
}

// TopBrands returns the n best-selling brands. Equal totals keep the order in
// which the brands first appear in view.
func TopBrands(view []models.Record, n int) []models.BrandTotal {
	totals := BrandTotals(view)
	slices.SortStableFunc(totals, func(a, b models.BrandTotal) int {
		return compareFloat(b.QuantitySold, a.QuantitySold)
	})
	return head(totals, n)
}

// BottomBrands returns the n worst-selling brands with the same tie-break as
// TopBrands.
func BottomBrands(view []models.Record, n int) []models.BrandTotal {
	totals := BrandTotals(view)
	slices.SortStableFunc(totals, func(a, b models.BrandTotal) int {
		return compareFloat(a.QuantitySold, b.QuantitySold)
	})
	return head(totals, n)
}

// InventoryTurnover computes sold / average inventory per row. Rows whose
// average inventory is zero have no defined ratio and are dropped.
func InventoryTurnover(view []models.Record) []models.TurnoverRow {
	rows := make([]models.TurnoverRow, 0, len(view))
	for _, r := range view {
		avg := (r.QuantitySold + r.QuantityInStock) / 2
		if avg == 0 {
			continue
		}
		rows = append(rows, models.TurnoverRow{
			Brand:             r.Brand,
			Category:          r.Category,
			AverageInventory:  avg,
			InventoryTurnover: r.QuantitySold / avg,
		})
	}
	return rows
}

// SellThroughRate computes sold / (sold + stock) as a percentage per row,
// dropping rows where both quantities are zero.
func SellThroughRate(view []models.Record) []models.SellThroughRow {
	rows := make([]models.SellThroughRow, 0, len(view))
	for _, r := range view {
		denom := r.QuantitySold + r.QuantityInStock
		if denom == 0 {
			continue
		}
		rows = append(rows, models.SellThroughRow{
			Brand:           r.Brand,
			Category:        r.Category,
			SellThroughRate: r.QuantitySold / denom * 100,
		})
	}
	return rows
}

// SellThroughPivot lays sell-through rates out as brand rows × category
// columns. A cell holding several rows gets their mean; empty cells are 0.
func SellThroughPivot(rows []models.SellThroughRow) models.Pivot {
	pivot := models.Pivot{
		Rows:    make([]string, 0),
		Columns: make([]string, 0),
	}
	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	for _, r := range rows {
		if _, ok := rowIdx[r.Brand]; !ok {
			rowIdx[r.Brand] = len(pivot.Rows)
			pivot.Rows = append(pivot.Rows, r.Brand)
		}
		if _, ok := colIdx[r.Category]; !ok {
			colIdx[r.Category] = len(pivot.Columns)
			pivot.Columns = append(pivot.Columns, r.Category)
		}
	}

	sums := make([][]float64, len(pivot.Rows))
	counts := make([][]int, len(pivot.Rows))
	for i := range sums {
		sums[i] = make([]float64, len(pivot.Columns))
		counts[i] = make([]int, len(pivot.Columns))
	}
	for _, r := range rows {
		i, j := rowIdx[r.Brand], colIdx[r.Category]
		sums[i][j] += r.SellThroughRate
		counts[i][j]++
	}

	pivot.Values = make([][]float64, len(pivot.Rows))
	for i := range sums {
		pivot.Values[i] = make([]float64, len(pivot.Columns))
		for j := range sums[i] {
			if counts[i][j] > 0 {
				pivot.Values[i][j] = sums[i][j] / float64(counts[i][j])
			}
		}
	}
	return pivot
}

// StockOutAlerts returns the rows with nothing left in stock.
func StockOutAlerts(view []models.Record) []models.StockOutRow {
	rows := make([]models.StockOutRow, 0)
	for _, r := range view {
		if r.QuantityInStock != 0 {
			continue
		}
		rows = append(rows, models.StockOutRow{
			Brand:           r.Brand,
			Category:        r.Category,
			QuantityInStock: r.QuantityInStock,
		})
	}
	return rows
}

// SalesContribution returns each row's share of the total quantity sold in
// view as a percentage. The boolean is false when nothing was sold, in which
// case no rows are computed.
func SalesContribution(view []models.Record) ([]models.ContributionRow, bool) {
	total := TotalSold(view)
	if total <= 0 {
		return nil, false
	}

	rows := make([]models.ContributionRow, 0, len(view))
	for _, r := range view {
		rows = append(rows, models.ContributionRow{
			Brand:             r.Brand,
			Category:          r.Category,
			SalesContribution: r.QuantitySold / total * 100,
		})
	}
	return rows, true
}

// BuildReport computes every dashboard section from view.
func BuildReport(spec models.FilterSpec, view []models.Record) models.Report {
	sellThrough := SellThroughRate(view)
	contribution, ok := SalesContribution(view)

	return models.Report{
		Filter:            spec,
		RecordCount:       len(view),
		TotalSold:         TotalSold(view),
		MonthlySales:      MonthlySalesTrend(view),
		TopBrands:         TopBrands(view, RankingSize),
		BottomBrands:      BottomBrands(view, RankingSize),
		InventoryTurnover: InventoryTurnover(view),
		SellThrough:       sellThrough,
		SellThroughPivot:  SellThroughPivot(sellThrough),
		StockOuts:         StockOutAlerts(view),
		Contribution:      contribution,
		HasContribution:   ok,
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func head[T any](s []T, n int) []T {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

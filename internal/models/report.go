package models

type TrendPoint struct {
	Month        string  `json:"month"`
	Brand        string  `json:"brand"`
	QuantitySold float64 `json:"quantity_sold"`
}

// TrendMatrix holds monthly sales per brand. Values[i][j] is the quantity
// sold in Months[i] for Brands[j].
type TrendMatrix struct {
	Points []TrendPoint `json:"points"`
	Months []string     `json:"months"`
	Brands []string     `json:"brands"`
	Values [][]float64  `json:"values"`
}

func (m TrendMatrix) Empty() bool {
	return len(m.Points) == 0
}

type BrandTotal struct {
	Brand        string  `json:"brand"`
	QuantitySold float64 `json:"quantity_sold"`
}

type TurnoverRow struct {
	Brand             string  `json:"brand"`
	Category          string  `json:"category"`
	AverageInventory  float64 `json:"average_inventory"`
	InventoryTurnover float64 `json:"inventory_turnover"`
}

type SellThroughRow struct {
	Brand           string  `json:"brand"`
	Category        string  `json:"category"`
	SellThroughRate float64 `json:"sell_through_rate"`
}

// Pivot is a dense Rows × Columns table; missing cells are 0.
type Pivot struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

type StockOutRow struct {
	Brand           string  `json:"brand"`
	Category        string  `json:"category"`
	QuantityInStock float64 `json:"quantity_in_stock"`
}

type ContributionRow struct {
	Brand             string  `json:"brand"`
	Category          string  `json:"category"`
	SalesContribution float64 `json:"sales_contribution"`
}

// Report is every dashboard section computed from one filtered view.
type Report struct {
	Filter            FilterSpec        `json:"filter"`
	RecordCount       int               `json:"record_count"`
	TotalSold         float64           `json:"total_sold"`
	MonthlySales      TrendMatrix       `json:"monthly_sales"`
	TopBrands         []BrandTotal      `json:"top_brands"`
	BottomBrands      []BrandTotal      `json:"bottom_brands"`
	InventoryTurnover []TurnoverRow     `json:"inventory_turnover"`
	SellThrough       []SellThroughRow  `json:"sell_through"`
	SellThroughPivot  Pivot             `json:"sell_through_pivot"`
	StockOuts         []StockOutRow     `json:"stock_outs"`
	Contribution      []ContributionRow `json:"sales_contribution"`
	HasContribution   bool              `json:"has_sales_contribution"`
}

package models

// Record is one row of the sales/inventory spreadsheet.
type Record struct {
	Brand              string  `json:"brand"`
	Category           string  `json:"category"`
	ClassifiedCategory string  `json:"classified_category"`
	MarketingGroup     string  `json:"marketing_group"`
	MonthName          string  `json:"month_name"`
	QuantitySold       float64 `json:"quantity_sold"`
	QuantityInStock    float64 `json:"quantity_in_stock"`
}

// FilterSpec is the conjunctive set of predicates applied to the dataset.
// An empty Months or Categories set matches no record.
type FilterSpec struct {
	MarketingGroup     string   `json:"marketing_group"`
	ClassifiedCategory string   `json:"classified_category"`
	Months             []string `json:"months"`
	Categories         []string `json:"categories"`
}

// FilterRequest is a filter as sent by a client. Empty strings and nil
// slices ask for the default; a non-nil empty slice is the empty set.
type FilterRequest struct {
	MarketingGroup     string   `json:"marketingGroup"`
	ClassifiedCategory string   `json:"classifiedCategory"`
	Months             []string `json:"months"`
	Categories         []string `json:"categories"`
}

type FilterOptions struct {
	MarketingGroups      []string `json:"marketing_groups"`
	ClassifiedCategories []string `json:"classified_categories"`
	Months               []string `json:"months"`
	Categories           []string `json:"categories"`
}

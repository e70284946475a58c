package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fashion-dashboard/internal/models"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRecords() []models.Record {
	return []models.Record{
		{Brand: "Aurelia", Category: "Kurta", ClassifiedCategory: "Ethnic", MarketingGroup: "Women", MonthName: "January", QuantitySold: 12, QuantityInStock: 8},
		{Brand: "Biba", Category: "Kurta", ClassifiedCategory: "Ethnic", MarketingGroup: "Women", MonthName: "January", QuantitySold: 5, QuantityInStock: 0},
		{Brand: "Aurelia", Category: "Dupatta", ClassifiedCategory: "Ethnic", MarketingGroup: "Women", MonthName: "February", QuantitySold: 3, QuantityInStock: 7},
		{Brand: "Levis", Category: "Jeans", ClassifiedCategory: "Western", MarketingGroup: "Men", MonthName: "January", QuantitySold: 20, QuantityInStock: 10},
		{Brand: "Biba", Category: "Dupatta", ClassifiedCategory: "Ethnic", MarketingGroup: "Women", MonthName: "March", QuantitySold: 0, QuantityInStock: 0},
	}
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.records == nil {
		t.Error("records should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	if got := len(a.Records()); got != 5 {
		t.Errorf("expected 5 records, got %d", got)
	}

	spec := a.ResolveFilter(models.FilterRequest{})
	report := a.Report(spec)

	if report.RecordCount == 0 {
		t.Error("Report() should return data for the default filter")
	}
	if len(report.TopBrands) == 0 {
		t.Error("TopBrands should return data")
	}
	if report.MonthlySales.Empty() {
		t.Error("MonthlySales should return data")
	}
}

func TestAnalytics_LoadFromFile_ValidCSV(t *testing.T) {
	validCSV := `Brand,Category,Classified_Category,Marketing_Group,Month_Name,Quantity_Sold,Quantity_In_Stock
Aurelia,Kurta,Ethnic,Women,January,12,8
Biba,Kurta,Ethnic,Women,January,oops,0`

	f := createTempCSV(t, validCSV)

	a := NewAnalytics()
	if err := a.LoadFromFile(context.Background(), f, LoadOptions{}); err != nil {
		t.Fatalf("LoadFromFile() with valid data should not error, got: %v", err)
	}

	records := a.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].QuantitySold != 0 {
		t.Errorf("malformed quantity should coerce to 0, got %v", records[1].QuantitySold)
	}
	if a.Stats()["source"] != f {
		t.Errorf("Stats() source = %v, want %q", a.Stats()["source"], f)
	}
}

func TestAnalytics_LoadFromFile_InvalidData(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr bool
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: true,
		},
		{
			name:    "header only",
			csv:     "Brand,Category,Classified_Category,Marketing_Group,Month_Name,Quantity_Sold,Quantity_In_Stock",
			wantErr: true,
		},
		{
			name:    "missing column",
			csv:     "Brand,Category,Marketing_Group,Month_Name,Quantity_Sold,Quantity_In_Stock\nA,X,W,January,1,1",
			wantErr: true,
		},
		{
			name:    "invalid quantity is coerced",
			csv:     "Brand,Category,Classified_Category,Marketing_Group,Month_Name,Quantity_Sold,Quantity_In_Stock\nA,X,C,W,January,n/a,-3",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTempCSV(t, tt.csv)

			a := NewAnalytics()
			err := a.LoadFromFile(context.Background(), f, LoadOptions{})

			if (err != nil) != tt.wantErr {
				t.Errorf("LoadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalytics_Options(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	opts := a.Options(models.FilterSpec{MarketingGroup: "Women", ClassifiedCategory: "Ethnic", Months: []string{"January"}})

	if len(opts.MarketingGroups) != 2 || opts.MarketingGroups[0] != "Women" {
		t.Errorf("unexpected marketing groups %v", opts.MarketingGroups)
	}
	if len(opts.Months) != 3 {
		t.Errorf("expected 3 months for Women/Ethnic, got %v", opts.Months)
	}
	if len(opts.Categories) != 1 || opts.Categories[0] != "Kurta" {
		t.Errorf("categories should cascade from the selected months, got %v", opts.Categories)
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			spec := a.ResolveFilter(models.FilterRequest{})
			_ = a.Report(spec)
			_ = a.Options(spec)
			_ = a.Stats()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestAnalytics_EmptyData(t *testing.T) {
	a := NewAnalytics()

	spec := a.ResolveFilter(models.FilterRequest{})
	report := a.Report(spec)

	if report.RecordCount != 0 {
		t.Errorf("expected empty report, got %d records", report.RecordCount)
	}
	if !report.MonthlySales.Empty() {
		t.Error("MonthlySales should be empty")
	}
	if len(report.TopBrands) != 0 || len(report.BottomBrands) != 0 {
		t.Error("rankings should be empty")
	}
	if report.HasContribution {
		t.Error("contribution should be unavailable for an empty view")
	}
}

func BenchmarkAnalytics_Report(b *testing.B) {
	a := NewAnalytics()
	brands := []string{"Aurelia", "Biba", "Levis", "Manyavar", "W", "Fabindia"}
	months := []string{"January", "February", "March", "April"}
	data := make([]models.Record, 1000)
	for i := range data {
		data[i] = models.Record{
			Brand:              brands[i%len(brands)],
			Category:           "Kurta",
			ClassifiedCategory: "Ethnic",
			MarketingGroup:     "Women",
			MonthName:          months[i%len(months)],
			QuantitySold:       float64(i % 17),
			QuantityInStock:    float64(i % 5),
		}
	}
	a.SetData(data)
	spec := a.ResolveFilter(models.FilterRequest{})

	b.ResetTimer()
	for b.Loop() {
		_ = a.Report(spec)
	}
}

package services

import (
	"context"
	"encoding/csv"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fashion-dashboard/internal/models"
)

const cacheVersion = "v2"

const (
	ColBrand              = "Brand"
	ColCategory           = "Category"
	ColClassifiedCategory = "Classified_Category"
	ColMarketingGroup     = "Marketing_Group"
	ColMonthName          = "Month_Name"
	ColQuantitySold       = "Quantity_Sold"
	ColQuantityInStock    = "Quantity_In_Stock"
)

// RequiredColumns is the column contract every input sheet must satisfy.
var RequiredColumns = []string{
	ColBrand,
	ColCategory,
	ColClassifiedCategory,
	ColMarketingGroup,
	ColMonthName,
	ColQuantitySold,
	ColQuantityInStock,
}

var (
	ErrMissingColumns    = errors.New("missing required columns")
	ErrNoRecords         = errors.New("no data rows found")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Sheet selects the worksheet of an xlsx file; the first sheet when empty.
	Sheet string
	// CacheDir holds gob snapshots of parsed files; caching is off when empty.
	CacheDir string
}

type datasetSnapshot struct {
	Sheet    string
	Records  []models.Record
	ParsedAt time.Time
}

// LoadRecords reads path (.xlsx or .csv) into records, validating the column
// contract and coercing malformed quantities to 0.
func LoadRecords(ctx context.Context, path string, opts LoadOptions) ([]models.Record, error) {
	if opts.CacheDir != "" {
		if snap, err := loadSnapshot(opts.CacheDir, path, opts.Sheet); err == nil && snap.Sheet == opts.Sheet {
			if info, err := os.Stat(path); err == nil && info.ModTime().Before(snap.ParsedAt) {
				return snap.Records, nil
			}
		}
	}

	var (
		records []models.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = loadWorkbook(ctx, path, opts.Sheet)
	case ".csv":
		records, err = loadCSV(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if opts.CacheDir != "" {
		// Snapshot errors are non-fatal.
		_ = saveSnapshot(opts.CacheDir, path, datasetSnapshot{Sheet: opts.Sheet, Records: records, ParsedAt: time.Now()})
	}
	return records, nil
}

func loadWorkbook(ctx context.Context, path, sheet string) ([]models.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	p := &rowParser{quantity: coerceQuantity}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Stored values, so number formats such as `0" pcs"` do not hide the quantity.
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if err := p.add(cols); err != nil {
			return nil, err
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("scan sheet %q: %w", sheet, err)
	}
	return p.result()
}

func loadCSV(ctx context.Context, path string) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return parseCSV(ctx, file)
}

func parseCSV(ctx context.Context, r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	p := &rowParser{quantity: coerceTextQuantity}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		if err := p.add(row); err != nil {
			return nil, err
		}
	}
	return p.result()
}

// rowParser turns a header row followed by data rows into records.
type rowParser struct {
	columns  map[string]int
	records  []models.Record
	quantity func(string) float64
}

func (p *rowParser) add(row []string) error {
	if p.columns == nil {
		if isBlank(row) {
			return nil
		}
		columns, err := mapHeader(row)
		if err != nil {
			return err
		}
		p.columns = columns
		return nil
	}
	if isBlank(row) {
		return nil
	}

	get := func(col string) string {
		idx := p.columns[col]
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	p.records = append(p.records, models.Record{
		Brand:              get(ColBrand),
		Category:           get(ColCategory),
		ClassifiedCategory: get(ColClassifiedCategory),
		MarketingGroup:     get(ColMarketingGroup),
		MonthName:          get(ColMonthName),
		QuantitySold:       p.quantity(get(ColQuantitySold)),
		QuantityInStock:    p.quantity(get(ColQuantityInStock)),
	})
	return nil
}

func (p *rowParser) result() ([]models.Record, error) {
	if p.columns == nil {
		return nil, fmt.Errorf("empty file: %w", ErrNoRecords)
	}
	if len(p.records) == 0 {
		return nil, ErrNoRecords
	}
	return p.records, nil
}

func mapHeader(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	columns := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		idx, ok := byName[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		columns[col] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

// coerceQuantity parses a stored quantity. Anything that is not a finite,
// non-negative number becomes 0.
func coerceQuantity(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// coerceTextQuantity parses a quantity typed as text, where thousands
// separators are common.
func coerceTextQuantity(raw string) float64 {
	return coerceQuantity(strings.ReplaceAll(raw, ",", ""))
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cache management
func snapshotFilename(cacheDir, path, sheet string) string {
	name := strings.ReplaceAll(filepath.ToSlash(path), "/", "_")
	if sheet != "" {
		name += "#" + url.PathEscape(sheet)
	}
	return filepath.Join(cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func saveSnapshot(cacheDir, path string, snap datasetSnapshot) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(snapshotFilename(cacheDir, path, snap.Sheet))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snap)
}

func loadSnapshot(cacheDir, path, sheet string) (*datasetSnapshot, error) {
	file, err := os.Open(snapshotFilename(cacheDir, path, sheet))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap datasetSnapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"aptcli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteListings writes listings in the canonical dataset column order.
// Missing numeric values render as empty cells.
func (w *CSVWriter) WriteListings(filePath string, listings []domain.Listing) error {
	records := make([][]string, 0, len(listings))
	for i := range listings {
		records = append(records, ListingRow(&listings[i]))
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers: domain.Columns(),
		Records: records,
	})
}

// ListingRow renders one listing as a CSV row in canonical column order.
func ListingRow(l *domain.Listing) []string {
	columns := domain.Columns()
	row := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := l.NumericField(col); ok {
			row[i] = FormatFloat(v)
			continue
		}
		if s, ok := l.StringField(col); ok {
			row[i] = s
		}
	}
	return row
}

// FormatFloat renders a numeric cell value, empty for missing.
func FormatFloat(v float64) string {
	if domain.Missing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

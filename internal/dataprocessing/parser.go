package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"aptcli/internal/errors"
	"aptcli/pkg/contracts/domain"
)

// requiredColumns must be present in every listing file.
var requiredColumns = []string{domain.ColID, domain.ColCity, domain.ColPrice}

// ParseListingsFile reads one listing CSV file and extracts its records.
// Columns are mapped by header name rather than position, so files with
// reordered or extra columns still parse. Unknown columns are ignored;
// missing optional columns leave the corresponding fields absent.
func ParseListingsFile(filePath string) ([]domain.Listing, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to open listing file", err).
			WithContext("path", filePath)
	}
	defer file.Close()

	listings, err := ParseListings(file)
	if err != nil {
		return nil, errors.NewParsingError("failed to parse listing file", err).
			WithContext("path", filePath)
	}

	slog.Debug("Parsed listing file",
		slog.String("path", filePath),
		slog.Int("record_count", len(listings)))

	return listings, nil
}

// ParseListings reads listing records from r. The first row is the header.
func ParseListings(r io.Reader) ([]domain.Listing, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	columnMap, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var listings []domain.Listing
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		listing := parseRow(row, columnMap)
		if listing.ID == "" {
			slog.Debug("Skipped row without id", slog.Int("row_number", i+2))
			continue
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// mapColumns maps column names to their positions in the header row.
func mapColumns(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(header))
	for j, name := range header {
		columnMap[strings.TrimSpace(name)] = j
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("could not find required column: %s", col)
		}
	}

	return columnMap, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, columnMap map[string]int) domain.Listing {
	getString := func(col string) string {
		if idx, exists := columnMap[col]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	parseFloat := func(col string) float64 {
		raw := strings.ReplaceAll(getString(col), ",", "")
		if raw == "" {
			return domain.MissingValue()
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.MissingValue()
		}
		return val
	}

	listing := domain.Listing{
		ID:               getString(domain.ColID),
		City:             getString(domain.ColCity),
		Type:             getString(domain.ColType),
		Ownership:        getString(domain.ColOwnership),
		BuildingMaterial: getString(domain.ColBuildingMaterial),
		Condition:        getString(domain.ColCondition),
		HasParkingSpace:  getString(domain.ColHasParkingSpace),
		HasBalcony:       getString(domain.ColHasBalcony),
		HasElevator:      getString(domain.ColHasElevator),
		HasSecurity:      getString(domain.ColHasSecurity),
		HasStorageRoom:   getString(domain.ColHasStorageRoom),
	}

	for _, col := range domain.Columns() {
		if _, ok := listing.NumericField(col); ok {
			listing.SetNumericField(col, parseFloat(col))
		}
	}

	return listing
}

package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"aptcli/pkg/contracts/domain"
)

// ColumnQuality describes missing-data coverage for one column.
type ColumnQuality struct {
	Column         string
	Kind           string // "numeric" or "categorical"
	Total          int
	Missing        int
	MissingPercent float64
	Distinct       int
}

// NumericStats holds descriptive statistics for one numeric column,
// computed over non-missing values only.
type NumericStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// ValueCount is one categorical value and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// QualityReport is the outcome of assessing one raw listing file.
type QualityReport struct {
	SourceFile   string
	RowCount     int
	DuplicateIDs int
	Columns      []ColumnQuality
	Numeric      []NumericStats
	ValueCounts  map[string][]ValueCount
}

// QualityAssessor inspects raw listings for missing data, duplicates and
// column distributions without modifying them.
type QualityAssessor struct {
	logger *slog.Logger
}

func NewQualityAssessor(logger *slog.Logger) *QualityAssessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QualityAssessor{logger: logger}
}

// Assess builds a quality report for the given listings. The listings are
// read only; no values are filled or dropped.
func (a *QualityAssessor) Assess(ctx context.Context, sourceFile string, listings []domain.Listing) (*QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &QualityReport{
		SourceFile:  sourceFile,
		RowCount:    len(listings),
		ValueCounts: make(map[string][]ValueCount),
	}

	seen := make(map[string]int, len(listings))
	for i := range listings {
		seen[listings[i].ID]++
	}
	for _, n := range seen {
		if n > 1 {
			report.DuplicateIDs += n - 1
		}
	}

	for _, column := range domain.Columns() {
		cq := a.assessColumn(listings, column)
		report.Columns = append(report.Columns, cq)

		if cq.Kind == "numeric" {
			report.Numeric = append(report.Numeric, numericStats(column, listings))
		} else {
			report.ValueCounts[column] = valueCounts(listings, column)
		}
	}

	a.logger.InfoContext(ctx, "Assessed listing file",
		slog.String("source", sourceFile),
		slog.Int("rows", report.RowCount),
		slog.Int("duplicate_ids", report.DuplicateIDs))

	return report, nil
}

func (a *QualityAssessor) assessColumn(listings []domain.Listing, column string) ColumnQuality {
	cq := ColumnQuality{Column: column, Total: len(listings)}

	if _, numeric := probeNumeric(column); numeric {
		cq.Kind = "numeric"
	} else {
		cq.Kind = "categorical"
	}

	distinct := make(map[string]struct{})
	for i := range listings {
		if listings[i].FieldMissing(column) {
			cq.Missing++
			continue
		}
		if cq.Kind == "numeric" {
			v, _ := listings[i].NumericField(column)
			distinct[fmt.Sprintf("%g", v)] = struct{}{}
		} else {
			v, _ := listings[i].StringField(column)
			distinct[v] = struct{}{}
		}
	}
	cq.Distinct = len(distinct)

	if cq.Total > 0 {
		cq.MissingPercent = float64(cq.Missing) / float64(cq.Total) * 100
	}
	return cq
}

func numericStats(column string, listings []domain.Listing) NumericStats {
	values := columnValues(listings, column)
	present := presentValues(values)

	stats := NumericStats{
		Column: column,
		Count:  len(present),
		Mean:   mean(values),
		Std:    stddev(values),
		Median: median(values),
		Q1:     quantile(values, 0.25),
		Q3:     quantile(values, 0.75),
		Min:    quantile(values, 0),
		Max:    quantile(values, 1),
	}
	return stats
}

func valueCounts(listings []domain.Listing, column string) []ValueCount {
	counts := make(map[string]int)
	for i := range listings {
		v, _ := listings[i].StringField(column)
		if v == "" {
			continue
		}
		counts[v]++
	}

	result := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		result = append(result, ValueCount{Value: v, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Value < result[j].Value
	})
	return result
}

// probeNumeric reports whether a column carries numeric values, using a
// zero listing as the probe.
func probeNumeric(column string) (float64, bool) {
	var probe domain.Listing
	return probe.NumericField(column)
}

// MissingMask returns a per-row, per-column missing indicator for up to
// limit rows, in canonical column order. Used to render the missing map.
func MissingMask(listings []domain.Listing, limit int) [][]bool {
	if limit <= 0 || limit > len(listings) {
		limit = len(listings)
	}

	columns := domain.Columns()
	mask := make([][]bool, limit)
	for i := 0; i < limit; i++ {
		row := make([]bool, len(columns))
		for j, column := range columns {
			row[j] = listings[i].FieldMissing(column)
		}
		mask[i] = row
	}
	return mask
}

package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"aptcli/internal/errors"
	"aptcli/pkg/contracts/domain"
)

// scatterSampleLimit caps the number of data rows behind each scatter
// chart so workbooks stay a reasonable size.
const scatterSampleLimit = 1000

// WorkbookWriter renders Excel artifacts: the missing-value map produced
// by the assessment stage and the chart workbook produced by the
// visualizer.
type WorkbookWriter struct {
	logger *slog.Logger
}

func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// WriteMissingMap renders a per-row, per-column missing-value grid. Cells
// hold 1 where the value is absent and are shaded via a color scale, so
// the sheet reads as a heat map of data gaps.
func (w *WorkbookWriter) WriteMissingMap(path string, columns []string, mask [][]bool) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "MissingMap"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.NewStorageError("failed to prepare missing map sheet", err)
	}

	header := make([]interface{}, len(columns)+1)
	header[0] = "row"
	for i, column := range columns {
		header[i+1] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write missing map header", err)
	}

	for i, row := range mask {
		values := make([]interface{}, len(row)+1)
		values[0] = i + 1
		for j, missing := range row {
			if missing {
				values[j+1] = 1
			} else {
				values[j+1] = 0
			}
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write missing map row", err)
		}
	}

	if len(mask) > 0 {
		area := fmt.Sprintf("B2:%s", cellName(len(columns)+1, len(mask)+1))
		if err := f.SetConditionalFormat(sheet, area, twoColorScale("#FFFFFF", "#C00000")); err != nil {
			return errors.NewStorageError("failed to format missing map", err)
		}
	}

	return w.save(f, path)
}

// WriteMarketAnalysis renders the full analysis workbook: overview,
// correlation heat sheet, popularity charts, price distributions, POI
// relations and the build-year occupancy matrix.
func (w *WorkbookWriter) WriteMarketAnalysis(path string, analysis *domain.MarketAnalysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return errors.NewStorageError("failed to prepare workbook", err)
	}

	steps := []func(*excelize.File, *domain.MarketAnalysis) error{
		w.writeOverview,
		w.writeCorrelation,
		w.writePopularity,
		w.writePriceByRooms,
		w.writeBuildYearCondition,
		w.writeDistances,
		w.writeOwnershipCondition,
		w.writeScatterSheets,
		w.writeBuildYearFloor,
	}
	for _, step := range steps {
		if err := step(f, analysis); err != nil {
			return err
		}
	}

	return w.save(f, path)
}

func (w *WorkbookWriter) writeOverview(f *excelize.File, analysis *domain.MarketAnalysis) error {
	rows := [][]interface{}{
		{"City", analysis.City},
		{"Years", fmt.Sprint(analysis.Years)},
		{"Records", analysis.RecordCount},
	}
	for i, row := range rows {
		values := row
		if err := f.SetSheetRow("Overview", cellName(1, i+1), &values); err != nil {
			return errors.NewStorageError("failed to write overview", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeCorrelation(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "Correlation"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create correlation sheet", err)
	}

	matrix := analysis.AmenityCorrelations
	header := make([]interface{}, len(matrix.Labels)+1)
	header[0] = ""
	for i, label := range matrix.Labels {
		header[i+1] = label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write correlation header", err)
	}

	for i, label := range matrix.Labels {
		values := make([]interface{}, len(matrix.Labels)+1)
		values[0] = label
		for j, v := range matrix.Values[i] {
			values[j+1] = nanToEmpty(v)
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write correlation row", err)
		}
	}

	n := len(matrix.Labels)
	if n > 0 {
		area := fmt.Sprintf("B2:%s", cellName(n+1, n+1))
		if err := f.SetConditionalFormat(sheet, area, twoColorScale("#5A8AC6", "#F8696B")); err != nil {
			return errors.NewStorageError("failed to format correlation sheet", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writePopularity(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "Popularity"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create popularity sheet", err)
	}

	tables := []struct {
		column string
		anchor int // 1-based sheet column of the table
		chart  string
	}{
		{column: domain.ColRooms, anchor: 1, chart: "J1"},
		{column: domain.ColFloor, anchor: 4, chart: "J16"},
		{column: domain.ColFloorCount, anchor: 7, chart: "J31"},
	}

	for _, table := range tables {
		buckets := analysis.Popularity[table.column]

		header := []interface{}{table.column, "count"}
		if err := f.SetSheetRow(sheet, cellName(table.anchor, 1), &header); err != nil {
			return errors.NewStorageError("failed to write popularity header", err)
		}
		for i, bucket := range buckets {
			values := []interface{}{bucket.Bucket, bucket.Count}
			if err := f.SetSheetRow(sheet, cellName(table.anchor, i+2), &values); err != nil {
				return errors.NewStorageError("failed to write popularity row", err)
			}
		}
		if len(buckets) == 0 {
			continue
		}

		chart := &excelize.Chart{
			Type:  excelize.Col,
			Title: []excelize.RichTextRun{{Text: "Listings by " + table.column}},
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!%s", sheet, cellName(table.anchor+1, 1)),
				Categories: rangeRef(sheet, table.anchor, 2, table.anchor, len(buckets)+1),
				Values:     rangeRef(sheet, table.anchor+1, 2, table.anchor+1, len(buckets)+1),
			}},
		}
		if err := f.AddChart(sheet, table.chart, chart); err != nil {
			return errors.NewStorageError("failed to add popularity chart", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writePriceByRooms(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "PriceByRooms"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create price sheet", err)
	}

	header := []interface{}{"rooms", "count", "min", "q1", "median", "q3", "max"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write price header", err)
	}
	for i, group := range analysis.PriceByRooms {
		values := []interface{}{
			group.Group, group.Count, nanToEmpty(group.Min), nanToEmpty(group.Q1),
			nanToEmpty(group.Median), nanToEmpty(group.Q3), nanToEmpty(group.Max),
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write price row", err)
		}
	}

	if n := len(analysis.PriceByRooms); n > 0 {
		chart := &excelize.Chart{
			Type:  excelize.Col,
			Title: []excelize.RichTextRun{{Text: "Median price by rooms"}},
			Series: []excelize.ChartSeries{{
				Name:       sheet + "!$E$1",
				Categories: rangeRef(sheet, 1, 2, 1, n+1),
				Values:     rangeRef(sheet, 5, 2, 5, n+1),
			}},
		}
		if err := f.AddChart(sheet, "I1", chart); err != nil {
			return errors.NewStorageError("failed to add price chart", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeDistances(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "Distances"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create distances sheet", err)
	}

	header := []interface{}{"column", "priceCorrelation", "observations"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write distances header", err)
	}
	for i, relation := range analysis.DistanceRelations {
		values := []interface{}{relation.Column, nanToEmpty(relation.Correlation), len(relation.Points)}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write distances row", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeBuildYearCondition(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "BuildYearByCondition"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create build year sheet", err)
	}

	header := []interface{}{"condition", "count", "min", "q1", "median", "q3", "max"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write build year header", err)
	}
	for i, group := range analysis.BuildYearByCondition {
		values := []interface{}{
			group.Group, group.Count, nanToEmpty(group.Min), nanToEmpty(group.Q1),
			nanToEmpty(group.Median), nanToEmpty(group.Q3), nanToEmpty(group.Max),
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write build year row", err)
		}
	}

	if n := len(analysis.BuildYearByCondition); n > 0 {
		chart := &excelize.Chart{
			Type:  excelize.Col,
			Title: []excelize.RichTextRun{{Text: "Median build year by condition"}},
			Series: []excelize.ChartSeries{{
				Name:       sheet + "!$E$1",
				Categories: rangeRef(sheet, 1, 2, 1, n+1),
				Values:     rangeRef(sheet, 5, 2, 5, n+1),
			}},
		}
		if err := f.AddChart(sheet, "I1", chart); err != nil {
			return errors.NewStorageError("failed to add build year chart", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeOwnershipCondition(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "OwnershipCondition"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create ownership sheet", err)
	}

	header := []interface{}{"ownership", "condition", "count", "mean", "median", "min", "max"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write ownership header", err)
	}
	for i, stats := range analysis.OwnershipCondition {
		values := []interface{}{
			stats.Ownership, stats.Condition, stats.Count, nanToEmpty(stats.Mean),
			nanToEmpty(stats.Median), nanToEmpty(stats.Min), nanToEmpty(stats.Max),
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write ownership row", err)
		}
	}

	if n := len(analysis.OwnershipCondition); n > 0 {
		chart := &excelize.Chart{
			Type:  excelize.Col,
			Title: []excelize.RichTextRun{{Text: "Mean price by ownership and condition"}},
			Series: []excelize.ChartSeries{{
				Name:       sheet + "!$D$1",
				Categories: rangeRef(sheet, 1, 2, 1, n+1),
				Values:     rangeRef(sheet, 4, 2, 4, n+1),
			}},
		}
		if err := f.AddChart(sheet, "I1", chart); err != nil {
			return errors.NewStorageError("failed to add ownership chart", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeScatterSheets(f *excelize.File, analysis *domain.MarketAnalysis) error {
	sheets := []struct {
		name   string
		xLabel string
		title  string
		points []domain.ScatterPoint
	}{
		{name: "CentreDistance", xLabel: domain.ColCentreDistance, title: "Price vs centre distance", points: analysis.CentreDistancePoints},
		{name: "BuildYear", xLabel: domain.ColBuildYear, title: "Price vs build year", points: analysis.BuildYearPoints},
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return errors.NewStorageError("failed to create scatter sheet", err)
		}

		points := s.points
		if len(points) > scatterSampleLimit {
			points = samplePoints(points, scatterSampleLimit)
		}

		header := []interface{}{s.xLabel, "price"}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return errors.NewStorageError("failed to write scatter header", err)
		}
		for i, p := range points {
			values := []interface{}{p.X, p.Y}
			if err := f.SetSheetRow(s.name, cellName(1, i+2), &values); err != nil {
				return errors.NewStorageError("failed to write scatter row", err)
			}
		}
		if len(points) == 0 {
			continue
		}

		chart := &excelize.Chart{
			Type:  excelize.Scatter,
			Title: []excelize.RichTextRun{{Text: s.title}},
			Series: []excelize.ChartSeries{{
				Name:       s.name + "!$B$1",
				Categories: rangeRef(s.name, 1, 2, 1, len(points)+1),
				Values:     rangeRef(s.name, 2, 2, 2, len(points)+1),
			}},
		}
		if err := f.AddChart(s.name, "E1", chart); err != nil {
			return errors.NewStorageError("failed to add scatter chart", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeBuildYearFloor(f *excelize.File, analysis *domain.MarketAnalysis) error {
	const sheet = "BuildYearFloor"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create occupancy sheet", err)
	}

	matrix := analysis.BuildYearFloor
	header := make([]interface{}, len(matrix.ColLabels)+1)
	header[0] = "buildYear \\ floor"
	for i, label := range matrix.ColLabels {
		header[i+1] = label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write occupancy header", err)
	}

	for i, label := range matrix.RowLabels {
		values := make([]interface{}, len(matrix.ColLabels)+1)
		values[0] = label
		for j, count := range matrix.Counts[i] {
			values[j+1] = count
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return errors.NewStorageError("failed to write occupancy row", err)
		}
	}

	if len(matrix.RowLabels) > 0 && len(matrix.ColLabels) > 0 {
		area := fmt.Sprintf("B2:%s", cellName(len(matrix.ColLabels)+1, len(matrix.RowLabels)+1))
		if err := f.SetConditionalFormat(sheet, area, twoColorScale("#FFFFFF", "#2E7D32")); err != nil {
			return errors.NewStorageError("failed to format occupancy sheet", err)
		}
	}
	return nil
}

func (w *WorkbookWriter) save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).
			WithContext("path", path)
	}

	w.logger.Info("Wrote workbook", slog.String("path", path))
	return nil
}

func twoColorScale(minColor, maxColor string) []excelize.ConditionalFormatOptions {
	return []excelize.ConditionalFormatOptions{{
		Type:     "2_color_scale",
		Criteria: "=",
		MinType:  "min",
		MinColor: minColor,
		MaxType:  "max",
		MaxColor: maxColor,
	}}
}

// samplePoints thins a point series to at most limit entries, keeping an
// even spread.
func samplePoints(points []domain.ScatterPoint, limit int) []domain.ScatterPoint {
	sampled := make([]domain.ScatterPoint, 0, limit)
	step := float64(len(points)) / float64(limit)
	for i := 0; i < limit; i++ {
		sampled = append(sampled, points[int(float64(i)*step)])
	}
	return sampled
}

// nanToEmpty maps a missing value to an empty cell.
func nanToEmpty(v float64) interface{} {
	if domain.Missing(v) {
		return nil
	}
	return v
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func rangeRef(sheet string, startCol, startRow, endCol, endRow int) string {
	start, _ := excelize.CoordinatesToCellName(startCol, startRow, true)
	end, _ := excelize.CoordinatesToCellName(endCol, endRow, true)
	return fmt.Sprintf("%s!%s:%s", sheet, start, end)
}

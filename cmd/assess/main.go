package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"aptcli/internal/config"
	"aptcli/internal/dataprocessing"
	"aptcli/internal/exporter"
	"aptcli/internal/files"
	"aptcli/internal/infrastructure"
	"aptcli/pkg/contracts"
	"aptcli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory with raw listing CSVs (defaults to data/raw relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = paths.RawDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("assess.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.InfoContext(ctx, "Starting quality assessment",
		slog.String("version", contracts.Version),
		slog.String("run_id", runID),
		slog.String("input_dir", *inDir))

	if err := run(ctx, logger, *inDir, paths); err != nil {
		logger.ErrorContext(ctx, "Quality assessment failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Quality assessment finished")
}

func run(ctx context.Context, logger *slog.Logger, inDir string, paths *config.Paths) error {
	csvFiles, err := files.FindCSVFiles(inDir)
	if err != nil {
		return err
	}
	if len(csvFiles) == 0 {
		return fmt.Errorf("no CSV files found in %s", inDir)
	}

	assessor := dataprocessing.NewQualityAssessor(logger)

	sources := make([]sourceListings, 0, len(csvFiles))
	for _, file := range csvFiles {
		listings, err := dataprocessing.ParseListingsFile(file.Path)
		if err != nil {
			return err
		}
		sources = append(sources, sourceListings{name: file.Name, listings: listings})
	}

	reports, combined, err := assessSources(ctx, logger, assessor, sources)
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(logger)
	if err := writer.WriteSimpleCSV(paths.QualityReportCSV, qualityHeaders(), qualityRecords(reports)); err != nil {
		return err
	}
	if err := writer.WriteSimpleCSV(paths.ColumnStatsCSV, statsHeaders(), statsRecords(reports)); err != nil {
		return err
	}

	mask := dataprocessing.MissingMask(combined, config.MissingMapSampleLimit)
	workbooks := exporter.NewWorkbookWriter(logger)
	return workbooks.WriteMissingMap(paths.MissingMapXLSX, domain.Columns(), mask)
}

// mergedSourceName labels the report rows computed over all source files
// concatenated into one table.
const mergedSourceName = "ALL"

type sourceListings struct {
	name     string
	listings []domain.Listing
}

// assessSources assesses each source file on its own, then the merged
// table, so the reports carry overall totals and statistics alongside the
// per-file rows.
func assessSources(ctx context.Context, logger *slog.Logger, assessor *dataprocessing.QualityAssessor, sources []sourceListings) ([]*dataprocessing.QualityReport, []domain.Listing, error) {
	var reports []*dataprocessing.QualityReport
	var combined []domain.Listing
	for _, src := range sources {
		report, err := assessor.Assess(ctx, src.name, src.listings)
		if err != nil {
			return nil, nil, err
		}
		reports = append(reports, report)
		combined = append(combined, src.listings...)

		logger.InfoContext(ctx, "Assessed file",
			slog.String("file", src.name),
			slog.Int("rows", report.RowCount),
			slog.Int("duplicate_ids", report.DuplicateIDs))
	}

	merged, err := assessor.Assess(ctx, mergedSourceName, combined)
	if err != nil {
		return nil, nil, err
	}
	reports = append(reports, merged)

	logger.InfoContext(ctx, "Assessed merged table",
		slog.Int("rows", merged.RowCount),
		slog.Int("duplicate_ids", merged.DuplicateIDs))

	return reports, combined, nil
}

func qualityHeaders() []string {
	return []string{"source_file", "column", "kind", "total", "missing", "missing_percent", "distinct"}
}

func qualityRecords(reports []*dataprocessing.QualityReport) [][]string {
	var records [][]string
	for _, report := range reports {
		for _, cq := range report.Columns {
			records = append(records, []string{
				report.SourceFile,
				cq.Column,
				cq.Kind,
				strconv.Itoa(cq.Total),
				strconv.Itoa(cq.Missing),
				strconv.FormatFloat(cq.MissingPercent, 'f', 2, 64),
				strconv.Itoa(cq.Distinct),
			})
		}
	}
	return records
}

func statsHeaders() []string {
	return []string{"source_file", "column", "kind", "count", "mean", "std", "min", "q1", "median", "q3", "max", "value_counts"}
}

func statsRecords(reports []*dataprocessing.QualityReport) [][]string {
	var records [][]string
	for _, report := range reports {
		for _, stats := range report.Numeric {
			records = append(records, []string{
				report.SourceFile,
				stats.Column,
				"numeric",
				strconv.Itoa(stats.Count),
				exporter.FormatFloat(stats.Mean),
				exporter.FormatFloat(stats.Std),
				exporter.FormatFloat(stats.Min),
				exporter.FormatFloat(stats.Q1),
				exporter.FormatFloat(stats.Median),
				exporter.FormatFloat(stats.Q3),
				exporter.FormatFloat(stats.Max),
				"",
			})
		}

		for _, column := range categoricalColumns(report) {
			counts := report.ValueCounts[column]
			total := 0
			pairs := make([]string, 0, len(counts))
			for _, vc := range counts {
				total += vc.Count
				pairs = append(pairs, fmt.Sprintf("%s:%d", vc.Value, vc.Count))
			}
			records = append(records, []string{
				report.SourceFile,
				column,
				"categorical",
				strconv.Itoa(total),
				"", "", "", "", "", "", "",
				strings.Join(pairs, "|"),
			})
		}
	}
	return records
}

// categoricalColumns returns the report's categorical columns in canonical
// dataset order.
func categoricalColumns(report *dataprocessing.QualityReport) []string {
	var columns []string
	for _, cq := range report.Columns {
		if cq.Kind == "categorical" {
			columns = append(columns, cq.Column)
		}
	}
	return columns
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"aptcli/internal/config"
	"aptcli/internal/dataprocessing"
	"aptcli/internal/exporter"
	"aptcli/internal/files"
	"aptcli/internal/infrastructure"
	"aptcli/pkg/contracts"
	"aptcli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory with cleaned partition CSVs (defaults to data/clean relative to executable)")
	city := flag.String("city", "", "city to analyze (defaults to the configured dataset city)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = paths.CleanDir
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
	cfg.Logging.FilePath = paths.GetLogPath("visualize.log")
	if *city == "" {
		*city = cfg.Dataset.City
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.InfoContext(ctx, "Starting market visualization",
		slog.String("version", contracts.Version),
		slog.String("run_id", runID),
		slog.String("input_dir", *inDir),
		slog.String("city", *city),
		slog.Any("years", cfg.Dataset.Years))

	if err := run(ctx, logger, *inDir, *city, cfg.Dataset.Years, paths); err != nil {
		logger.ErrorContext(ctx, "Market visualization failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Market visualization finished")
}

func run(ctx context.Context, logger *slog.Logger, inDir, city string, years []int, paths *config.Paths) error {
	combined, err := loadSaleYears(ctx, logger, inDir, years)
	if err != nil {
		return err
	}
	if len(combined) == 0 {
		return fmt.Errorf("no sale listings found under %s for years %v", inDir, years)
	}

	analyzer := dataprocessing.NewAnalyzer(logger)
	cityListings := analyzer.FilterCity(combined, city)
	if len(cityListings) == 0 {
		return fmt.Errorf("no listings for city %q", city)
	}

	analysis, err := analyzer.Analyze(ctx, city, years, cityListings)
	if err != nil {
		return err
	}

	workbooks := exporter.NewWorkbookWriter(logger)
	if err := workbooks.WriteMarketAnalysis(paths.MarketAnalysisXLSX, analysis); err != nil {
		return err
	}

	heat := analyzer.HeatPoints(cityListings)
	heatmaps := exporter.NewHeatMapWriter(logger)
	return heatmaps.WriteHeatMap(paths.PriceHeatmapHTML, city, heat)
}

// loadSaleYears reads every cleaned sale partition for the requested years
// and stamps each record with its partition year.
func loadSaleYears(ctx context.Context, logger *slog.Logger, inDir string, years []int) ([]domain.Listing, error) {
	var combined []domain.Listing
	for _, year := range years {
		key := domain.PartitionKey{OfferType: domain.OfferSale, Year: year}
		dir := filepath.Join(inDir, key.DirName())

		csvFiles, err := files.FindCSVFiles(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.WarnContext(ctx, "Partition directory missing, skipping",
					slog.String("partition", key.String()))
				continue
			}
			return nil, err
		}

		for _, file := range csvFiles {
			listings, err := dataprocessing.ParseListingsFile(file.Path)
			if err != nil {
				return nil, err
			}
			for i := range listings {
				listings[i].Year = year
			}
			combined = append(combined, listings...)

			logger.InfoContext(ctx, "Loaded partition file",
				slog.String("partition", key.String()),
				slog.String("file", file.Name),
				slog.Int("record_count", len(listings)))
		}
	}
	return combined, nil
}

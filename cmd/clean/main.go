package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aptcli/internal/config"
	"aptcli/internal/dataprocessing"
	"aptcli/internal/exporter"
	"aptcli/internal/files"
	"aptcli/internal/infrastructure"
	"aptcli/internal/storage"
	"aptcli/pkg/contracts"
	"aptcli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory with partitioned CSVs (defaults to data/partitions relative to executable)")
	outDir := flag.String("out", "", "output directory for cleaned CSVs (defaults to data/clean relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = paths.PartitionsDir
	}
	if *outDir == "" {
		*outDir = paths.CleanDir
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
	cfg.Logging.FilePath = paths.GetLogPath("clean.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.InfoContext(ctx, "Starting data cleaning",
		slog.String("version", contracts.Version),
		slog.String("run_id", runID),
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.Bool("database_enabled", cfg.Database.Enabled))

	if err := run(ctx, logger, cfg, *inDir, *outDir); err != nil {
		logger.ErrorContext(ctx, "Data cleaning failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Data cleaning finished")
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, inDir, outDir string) error {
	csvFiles, err := files.WalkCSVFiles(inDir)
	if err != nil {
		return err
	}
	if len(csvFiles) == 0 {
		return fmt.Errorf("no CSV files found under %s", inDir)
	}

	cleaner := dataprocessing.NewCleaner(logger)
	manager := files.NewManager(logger)
	writer := exporter.NewCSVWriter(logger)
	stamp := time.Now().Format("20060102_150405")

	var allCleaned []domain.Listing
	for _, file := range csvFiles {
		listings, err := dataprocessing.ParseListingsFile(file.Path)
		if err != nil {
			return err
		}

		cleaned, result, err := cleaner.Clean(ctx, listings)
		if err != nil {
			return err
		}

		destDir, err := mirrorDir(inDir, outDir, file.Path)
		if err != nil {
			return err
		}
		if err := manager.EnsureDirectory(destDir); err != nil {
			return err
		}

		stem := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
		if err := manager.RemoveVersions(destDir, stem+"_cleaned_", ".csv"); err != nil {
			return err
		}

		outPath := filepath.Join(destDir, fmt.Sprintf("%s_cleaned_%s.csv", stem, stamp))
		if err := writer.WriteListings(outPath, cleaned); err != nil {
			return err
		}
		allCleaned = append(allCleaned, cleaned...)

		logger.InfoContext(ctx, "Cleaned file",
			slog.String("file", file.Name),
			slog.String("output", outPath),
			slog.Int("input_count", result.InputCount),
			slog.Int("output_count", result.OutputCount),
			slog.Int("duplicates_dropped", result.DuplicatesDrop))
	}

	if !cfg.Database.Enabled {
		return nil
	}

	pw, err := storage.NewPostgresWriter(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer pw.Close()

	return pw.ReplaceListings(ctx, allCleaned)
}

// mirrorDir maps a file's partition directory onto the clean tree.
func mirrorDir(inDir, outDir, filePath string) (string, error) {
	rel, err := filepath.Rel(inDir, filepath.Dir(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve relative path for %s: %w", filePath, err)
	}
	return filepath.Join(outDir, rel), nil
}

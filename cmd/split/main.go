package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"aptcli/internal/config"
	"aptcli/internal/dataprocessing"
	"aptcli/internal/files"
	"aptcli/internal/infrastructure"
	"aptcli/pkg/contracts"
)

func main() {
	inDir := flag.String("in", "", "input directory with raw listing CSVs (defaults to data/raw relative to executable)")
	outDir := flag.String("out", "", "output directory for partitions (defaults to data/partitions relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = paths.RawDir
	}
	if *outDir == "" {
		*outDir = paths.PartitionsDir
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
	cfg.Logging.FilePath = paths.GetLogPath("split.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.InfoContext(ctx, "Starting dataset split",
		slog.String("version", contracts.Version),
		slog.String("run_id", runID),
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir))

	if err := run(ctx, logger, *inDir, *outDir); err != nil {
		logger.ErrorContext(ctx, "Dataset split failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Dataset split finished")
}

func run(ctx context.Context, logger *slog.Logger, inDir, outDir string) error {
	csvFiles, err := files.FindCSVFiles(inDir)
	if err != nil {
		return err
	}
	if len(csvFiles) == 0 {
		return fmt.Errorf("no CSV files found in %s", inDir)
	}

	sources := make([]dataprocessing.SourceFile, 0, len(csvFiles))
	for _, file := range csvFiles {
		listings, err := dataprocessing.ParseListingsFile(file.Path)
		if err != nil {
			return err
		}
		sources = append(sources, dataprocessing.SourceFile{Name: file.Name, Listings: listings})
	}

	splitter := dataprocessing.NewSplitter(logger)
	partitions, err := splitter.Split(ctx, sources)
	if err != nil {
		return err
	}

	written, err := splitter.WritePartitions(ctx, outDir, partitions, time.Now())
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Wrote all partitions",
		slog.Int("partition_count", len(partitions)),
		slog.Int("file_count", len(written)))

	return nil
}

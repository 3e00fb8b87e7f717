package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the pipeline.
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	PartitionsDir string
	CleanDir      string
	ReportsDir    string
	QualityDir    string
	ChartsDir     string
	LogsDir       string

	// Well-known report files
	QualityReportCSV   string
	ColumnStatsCSV     string
	MissingMapXLSX     string
	MarketAnalysisXLSX string
	PriceHeatmapHTML   string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the
// current working directory, so the stage binaries behave the same wherever
// they are invoked from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// <exe dir>/
	//   ├── data/
	//   │   ├── raw/          (source CSV files, user supplied)
	//   │   ├── partitions/   (one folder per offer type + year)
	//   │   ├── clean/        (cleaned CSVs, mirrors partitions layout)
	//   │   └── reports/
	//   │       ├── quality/  (quality report, column stats, missing map)
	//   │       └── charts/   (chart workbook, heat map HTML)
	//   └── logs/

	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")
	qualityDir := filepath.Join(reportsDir, "quality")
	chartsDir := filepath.Join(reportsDir, "charts")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		RawDir:        filepath.Join(dataDir, "raw"),
		PartitionsDir: filepath.Join(dataDir, "partitions"),
		CleanDir:      filepath.Join(dataDir, "clean"),
		ReportsDir:    reportsDir,
		QualityDir:    qualityDir,
		ChartsDir:     chartsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		QualityReportCSV:   filepath.Join(qualityDir, "quality_report.csv"),
		ColumnStatsCSV:     filepath.Join(qualityDir, "column_stats.csv"),
		MissingMapXLSX:     filepath.Join(qualityDir, "missing_map.xlsx"),
		MarketAnalysisXLSX: filepath.Join(chartsDir, "market_analysis.xlsx"),
		PriceHeatmapHTML:   filepath.Join(chartsDir, "price_heatmap.html"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist.
// Partition subdirectories are created by the splitter as it writes.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.PartitionsDir,
		p.CleanDir,
		p.ReportsDir,
		p.QualityDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetLogPath returns the path of a log file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

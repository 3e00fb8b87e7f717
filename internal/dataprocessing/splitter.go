package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"aptcli/internal/exporter"
	"aptcli/internal/files"
	"aptcli/pkg/contracts/domain"
)

// SourceFile is one parsed raw listing file, keyed by its original name.
type SourceFile struct {
	Name     string
	Listings []domain.Listing
}

// Splitter partitions raw listings by (offer type, year). Both attributes
// come from the source file name, not from record contents.
type Splitter struct {
	logger  *slog.Logger
	manager *files.Manager
	writer  *exporter.CSVWriter
}

func NewSplitter(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		logger:  logger,
		manager: files.NewManager(logger),
		writer:  exporter.NewCSVWriter(logger),
	}
}

// Split groups the source files into partitions. Files whose name carries
// no four-digit year are skipped with a warning. Every listing is stamped
// with its partition year and lands in exactly one partition.
func (s *Splitter) Split(ctx context.Context, sources []SourceFile) ([]domain.Partition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grouped := make(map[domain.PartitionKey][]domain.Listing)
	for _, source := range sources {
		year, ok := files.YearFromName(source.Name)
		if !ok {
			s.logger.WarnContext(ctx, "Skipping file without a year in its name",
				slog.String("file", source.Name))
			continue
		}

		key := domain.PartitionKey{
			OfferType: files.OfferTypeFromName(source.Name),
			Year:      year,
		}
		for _, l := range source.Listings {
			l.Year = year
			grouped[key] = append(grouped[key], l)
		}

		s.logger.InfoContext(ctx, "Assigned file to partition",
			slog.String("file", source.Name),
			slog.String("partition", key.String()),
			slog.Int("record_count", len(source.Listings)))
	}

	partitions := make([]domain.Partition, 0, len(grouped))
	for key, listings := range grouped {
		partitions = append(partitions, domain.Partition{Key: key, Listings: listings})
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Key.DirName() < partitions[j].Key.DirName()
	})

	return partitions, nil
}

// WritePartitions writes each partition to its own directory under outDir
// as <type>_data_<year>_<timestamp>.csv. Existing files in the partition
// directory are removed first, so a rerun replaces rather than accumulates.
func (s *Splitter) WritePartitions(ctx context.Context, outDir string, partitions []domain.Partition, stamp time.Time) ([]string, error) {
	written := make([]string, 0, len(partitions))

	for _, partition := range partitions {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		dir := filepath.Join(outDir, partition.Key.DirName())
		if err := s.manager.EnsureDirectory(dir); err != nil {
			return written, err
		}
		if err := s.manager.ClearDirectory(dir); err != nil {
			return written, err
		}

		name := fmt.Sprintf("%s_data_%d_%s.csv",
			partition.Key.OfferType, partition.Key.Year, stamp.Format("20060102_150405"))
		path := filepath.Join(dir, name)

		if err := s.writer.WriteListings(path, partition.Listings); err != nil {
			return written, err
		}
		written = append(written, path)

		s.logger.InfoContext(ctx, "Wrote partition",
			slog.String("partition", partition.Key.String()),
			slog.String("path", path),
			slog.Int("record_count", len(partition.Listings)))
	}

	return written, nil
}

package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptcli/internal/dataprocessing"
	"aptcli/internal/exporter"
	"aptcli/pkg/contracts/domain"
)

func priceListings(prefix string, present, missing int, price float64) []domain.Listing {
	listings := make([]domain.Listing, 0, present+missing)
	for i := 0; i < present+missing; i++ {
		l := domain.Listing{ID: prefix + strconv.Itoa(i), City: "krakow", Price: price}
		if i < missing {
			l.Price = math.NaN()
		}
		listings = append(listings, l)
	}
	return listings
}

func TestAssessSourcesIncludesMergedTable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assessor := dataprocessing.NewQualityAssessor(logger)

	sources := []sourceListings{
		{name: "apartments_pl_2023_08.csv", listings: priceListings("a", 8, 2, 100)},
		{name: "apartments_pl_2023_09.csv", listings: priceListings("b", 12, 8, 400)},
	}

	reports, combined, err := assessSources(context.Background(), logger, assessor, sources)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Len(t, combined, 30)

	merged := reports[2]
	assert.Equal(t, mergedSourceName, merged.SourceFile)
	assert.Equal(t, 30, merged.RowCount)

	var foundQuality bool
	for _, record := range qualityRecords(reports) {
		if record[0] == mergedSourceName && record[1] == domain.ColPrice {
			foundQuality = true
			assert.Equal(t, "30", record[3])
			assert.Equal(t, "10", record[4])
		}
	}
	assert.True(t, foundQuality, "expected a merged-table quality row for price")

	// The merged mean (280) is not recoverable from the per-file means
	// (100 and 400), so it has to come from a pass over the full table.
	var mergedMean string
	for _, record := range statsRecords(reports) {
		if record[0] == mergedSourceName && record[1] == domain.ColPrice {
			mergedMean = record[4]
		}
	}
	assert.Equal(t, exporter.FormatFloat(280), mergedMean)
}

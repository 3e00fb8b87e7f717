package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aptcli/pkg/contracts/domain"
)

func TestWriteMissingMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_map.xlsx")

	w := NewWorkbookWriter(nil)
	err := w.WriteMissingMap(path, []string{"floor", "price"}, [][]bool{
		{true, false},
		{false, false},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("MissingMap", "B1")
	require.NoError(t, err)
	assert.Equal(t, "floor", header)

	missing, err := f.GetCellValue("MissingMap", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", missing)

	present, err := f.GetCellValue("MissingMap", "C2")
	require.NoError(t, err)
	assert.Equal(t, "0", present)
}

func testAnalysis() *domain.MarketAnalysis {
	return &domain.MarketAnalysis{
		City:        "krakow",
		Years:       []int{2023, 2024},
		RecordCount: 4,
		AmenityCorrelations: domain.CorrelationMatrix{
			Labels: []string{"pricePerSqm", domain.ColHasElevator},
			Values: [][]float64{{1, 0.8}, {0.8, 1}},
		},
		DistanceRelations: []domain.DistanceRelation{
			{Column: domain.ColSchoolDistance, Correlation: -0.2, Points: []domain.ScatterPoint{{X: 1, Y: 100}}},
		},
		Popularity: map[string][]domain.BucketCount{
			domain.ColRooms:      {{Bucket: 2, Count: 3}, {Bucket: 3, Count: 1}},
			domain.ColFloor:      {{Bucket: 1, Count: 4}},
			domain.ColFloorCount: {{Bucket: 4, Count: 4}},
		},
		PriceByRooms: []domain.GroupQuartiles{
			{Group: "2", Count: 3, Min: 100, Q1: 150, Median: 200, Q3: 250, Max: 300},
		},
		BuildYearByCondition: []domain.GroupQuartiles{
			{Group: "premium", Count: 2, Min: 1995, Q1: 2000, Median: 2005, Q3: 2010, Max: 2015},
		},
		OwnershipCondition: []domain.OwnershipConditionStats{
			{Ownership: "condominium", Condition: "premium", Count: 2, Mean: 500, Median: 500, Min: 400, Max: 600},
		},
		CentreDistancePoints: []domain.ScatterPoint{{X: 2.5, Y: 100}, {X: 5, Y: 80}},
		BuildYearPoints:      []domain.ScatterPoint{{X: 1990, Y: 100}},
		BuildYearFloor: domain.OccupancyMatrix{
			RowLabels: []string{"1990s"},
			ColLabels: []string{"1", "2"},
			Counts:    [][]int{{3, 1}},
		},
	}
}

func TestWriteMarketAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market_analysis.xlsx")

	w := NewWorkbookWriter(nil)
	require.NoError(t, w.WriteMarketAnalysis(path, testAnalysis()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, expected := range []string{
		"Overview", "Correlation", "Popularity", "PriceByRooms",
		"BuildYearByCondition", "Distances", "OwnershipCondition",
		"CentreDistance", "BuildYear", "BuildYearFloor",
	} {
		assert.Contains(t, sheets, expected)
	}

	city, err := f.GetCellValue("Overview", "B1")
	require.NoError(t, err)
	assert.Equal(t, "krakow", city)

	corr, err := f.GetCellValue("Correlation", "C2")
	require.NoError(t, err)
	assert.Equal(t, "0.8", corr)

	rooms, err := f.GetCellValue("Popularity", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2", rooms)

	median, err := f.GetCellValue("PriceByRooms", "E2")
	require.NoError(t, err)
	assert.Equal(t, "200", median)

	buildYear, err := f.GetCellValue("BuildYearByCondition", "E2")
	require.NoError(t, err)
	assert.Equal(t, "2005", buildYear)

	count, err := f.GetCellValue("BuildYearFloor", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", count)
}

func TestSamplePoints(t *testing.T) {
	points := make([]domain.ScatterPoint, 10)
	for i := range points {
		points[i] = domain.ScatterPoint{X: float64(i), Y: float64(i)}
	}

	sampled := samplePoints(points, 5)
	require.Len(t, sampled, 5)
	assert.Equal(t, 0.0, sampled[0].X)
	assert.Equal(t, 8.0, sampled[4].X)
}

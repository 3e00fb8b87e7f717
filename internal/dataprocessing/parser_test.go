package dataprocessing

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListings(t *testing.T) {
	csv := `id,city,type,squareMeters,rooms,floor,floorCount,buildYear,latitude,longitude,centreDistance,ownership,condition,hasElevator,price
abc-1,krakow,blockOfFlats,55.5,3,2,4,1995,50.06,19.93,2.5,condominium,premium,yes,750000
abc-2,krakow,,48,2,,,,50.07,19.94,3.1,condominium,,no,620000
`

	listings, err := ParseListings(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "abc-1", first.ID)
	assert.Equal(t, "krakow", first.City)
	assert.Equal(t, "blockOfFlats", first.Type)
	assert.Equal(t, 55.5, first.SquareMeters)
	assert.Equal(t, 3.0, first.Rooms)
	assert.Equal(t, 1995.0, first.BuildYear)
	assert.Equal(t, "premium", first.Condition)
	assert.Equal(t, "yes", first.HasElevator)
	assert.Equal(t, 750000.0, first.Price)

	second := listings[1]
	assert.Equal(t, "abc-2", second.ID)
	assert.Empty(t, second.Type)
	assert.Empty(t, second.Condition)
	assert.True(t, math.IsNaN(second.Floor))
	assert.True(t, math.IsNaN(second.FloorCount))
	assert.True(t, math.IsNaN(second.BuildYear))
}

func TestParseListingsBOM(t *testing.T) {
	csv := "\xEF\xBB\xBFid,city,price\nx-1,warszawa,500000\n"

	listings, err := ParseListings(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "x-1", listings[0].ID)
	assert.Equal(t, "warszawa", listings[0].City)
}

func TestParseListingsSkipsRowsWithoutID(t *testing.T) {
	csv := "id,city,price\n,krakow,100\nok-1,krakow,200\n"

	listings, err := ParseListings(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "ok-1", listings[0].ID)
}

func TestParseListingsMissingRequiredColumn(t *testing.T) {
	csv := "id,squareMeters\nabc,50\n"

	_, err := ParseListings(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}

func TestParseListingsEmptyFile(t *testing.T) {
	_, err := ParseListings(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseListingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apartments_pl_2023_08.csv")
	content := "id,city,price\nf-1,krakow,430000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	listings, err := ParseListingsFile(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 430000.0, listings[0].Price)

	_, err = ParseListingsFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}

package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptcli/pkg/contracts/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("id,city,price\n"), 0644))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "apartments_pl_2023_08.csv"))
	writeFile(t, filepath.Join(dir, "apartments_rent_pl_2024_01.csv"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "nested", "apartments_pl_2024_02.csv"))

	found, err := FindCSVFiles(dir)
	require.NoError(t, err)

	// Non-recursive, CSV only, sorted by name.
	require.Len(t, found, 2)
	assert.Equal(t, "apartments_pl_2023_08.csv", found[0].Name)
	assert.Equal(t, "apartments_rent_pl_2024_01.csv", found[1].Name)
}

func TestFindCSVFiles_MissingDir(t *testing.T) {
	_, err := FindCSVFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestWalkCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sale_2023", "sale_data_2023.csv"))
	writeFile(t, filepath.Join(dir, "rent_2024", "rent_data_2024.csv"))
	writeFile(t, filepath.Join(dir, "rent_2024", "readme.md"))

	found, err := WalkCSVFiles(dir)
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, "rent_data_2024.csv", found[0].Name)
	assert.Equal(t, "sale_data_2023.csv", found[1].Name)
}

func TestOfferTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want domain.OfferType
	}{
		{"apartments_rent_pl_2024_01.csv", domain.OfferRent},
		{"apartments_pl_2023_08.csv", domain.OfferSale},
		{"RENT_extract.csv", domain.OfferRent},
		{"listings.csv", domain.OfferSale},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OfferTypeFromName(tt.name), tt.name)
	}
}

func TestYearFromName(t *testing.T) {
	tests := []struct {
		name     string
		wantYear int
		wantOK   bool
	}{
		{"apartments_pl_2023_08.csv", 2023, true},
		{"apartments_rent_pl_2024_01.csv", 2024, true},
		{"apartments.csv", 0, false},
		{"top100.csv", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok := YearFromName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

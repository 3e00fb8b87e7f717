package exporter

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptcli/pkg/contracts/domain"
)

func TestWriteCSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	w := NewCSVWriter(nil)
	err := w.WriteCSV(path, WriteOptions{
		Headers:   []string{"id", "value"},
		Records:   [][]string{{"a", "1"}, {"b", "2"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"))
	assert.Contains(t, string(content), "id,value\n")
	assert.Contains(t, string(content), "b,2\n")
}

func TestWriteListings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.csv")

	l := domain.Listing{
		ID:           "x-1",
		City:         "krakow",
		SquareMeters: 55.5,
		Price:        750000,
		Floor:        math.NaN(),
		HasElevator:  domain.FlagYes,
	}

	w := NewCSVWriter(nil)
	require.NoError(t, w.WriteListings(path, []domain.Listing{l}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(content), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(domain.Columns(), ","), lines[0])

	fields := strings.Split(lines[1], ",")
	byColumn := make(map[string]string)
	for i, column := range domain.Columns() {
		byColumn[column] = fields[i]
	}
	assert.Equal(t, "x-1", byColumn[domain.ColID])
	assert.Equal(t, "55.5", byColumn[domain.ColSquareMeters])
	assert.Equal(t, "750000", byColumn[domain.ColPrice])
	assert.Equal(t, "", byColumn[domain.ColFloor])
	assert.Equal(t, "1", byColumn[domain.ColHasElevator])
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{55.5, "55.5"},
		{750000, "750000"},
		{math.NaN(), ""},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
}

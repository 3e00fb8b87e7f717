package dataprocessing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptcli/pkg/contracts/domain"
)

func nanListing(id string) domain.Listing {
	l := domain.Listing{ID: id, City: "krakow"}
	for _, column := range domain.Columns() {
		if _, ok := l.NumericField(column); ok {
			l.SetNumericField(column, math.NaN())
		}
	}
	return l
}

func TestQualityAssessorMissingCounts(t *testing.T) {
	a := nanListing("a")
	a.Price = 400000
	a.Condition = "premium"

	b := nanListing("b")
	b.Price = 600000

	c := nanListing("c")

	assessor := NewQualityAssessor(nil)
	report, err := assessor.Assess(context.Background(), "apartments_pl_2023_08.csv", []domain.Listing{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, 0, report.DuplicateIDs)

	byColumn := make(map[string]ColumnQuality)
	for _, cq := range report.Columns {
		byColumn[cq.Column] = cq
	}

	price := byColumn[domain.ColPrice]
	assert.Equal(t, 1, price.Missing)
	assert.InDelta(t, 100.0/3.0, price.MissingPercent, 0.01)

	condition := byColumn[domain.ColCondition]
	assert.Equal(t, "categorical", condition.Kind)
	assert.Equal(t, 2, condition.Missing)

	city := byColumn[domain.ColCity]
	assert.Equal(t, 0, city.Missing)
	assert.Equal(t, 1, city.Distinct)
}

func TestQualityAssessorDuplicates(t *testing.T) {
	listings := []domain.Listing{
		nanListing("dup"),
		nanListing("dup"),
		nanListing("dup"),
		nanListing("other"),
	}

	assessor := NewQualityAssessor(nil)
	report, err := assessor.Assess(context.Background(), "raw.csv", listings)
	require.NoError(t, err)
	assert.Equal(t, 2, report.DuplicateIDs)
}

func TestQualityAssessorNumericStats(t *testing.T) {
	var listings []domain.Listing
	for i, price := range []float64{100, 200, 300, 400} {
		l := nanListing(string(rune('a' + i)))
		l.Price = price
		listings = append(listings, l)
	}

	assessor := NewQualityAssessor(nil)
	report, err := assessor.Assess(context.Background(), "raw.csv", listings)
	require.NoError(t, err)

	var price NumericStats
	for _, ns := range report.Numeric {
		if ns.Column == domain.ColPrice {
			price = ns
		}
	}

	assert.Equal(t, 4, price.Count)
	assert.Equal(t, 250.0, price.Mean)
	assert.Equal(t, 100.0, price.Min)
	assert.Equal(t, 400.0, price.Max)
	assert.Equal(t, 250.0, price.Median)
	assert.Equal(t, 175.0, price.Q1)
	assert.Equal(t, 325.0, price.Q3)
}

func TestQualityAssessorValueCounts(t *testing.T) {
	a := nanListing("a")
	a.Condition = "premium"
	b := nanListing("b")
	b.Condition = "low"
	c := nanListing("c")
	c.Condition = "low"

	assessor := NewQualityAssessor(nil)
	report, err := assessor.Assess(context.Background(), "raw.csv", []domain.Listing{a, b, c})
	require.NoError(t, err)

	counts := report.ValueCounts[domain.ColCondition]
	require.Len(t, counts, 2)
	assert.Equal(t, ValueCount{Value: "low", Count: 2}, counts[0])
	assert.Equal(t, ValueCount{Value: "premium", Count: 1}, counts[1])
}

func TestMissingMask(t *testing.T) {
	a := nanListing("a")
	a.Price = 100

	mask := MissingMask([]domain.Listing{a, nanListing("b")}, 1)
	require.Len(t, mask, 1)
	require.Len(t, mask[0], len(domain.Columns()))

	byColumn := make(map[string]bool)
	for j, column := range domain.Columns() {
		byColumn[column] = mask[0][j]
	}
	assert.False(t, byColumn[domain.ColID])
	assert.False(t, byColumn[domain.ColPrice])
	assert.True(t, byColumn[domain.ColSquareMeters])
}

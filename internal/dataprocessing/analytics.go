package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/paulmach/orb"

	"aptcli/internal/config"
	"aptcli/pkg/contracts/domain"
)

// Analyzer computes the visualizer's aggregate views over cleaned sale
// listings.
type Analyzer struct {
	logger *slog.Logger
}

func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// FilterCity returns the listings located in the given city,
// case-insensitively.
func (a *Analyzer) FilterCity(listings []domain.Listing, city string) []domain.Listing {
	filtered := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		if listings[i].InCity(city) {
			filtered = append(filtered, listings[i])
		}
	}
	return filtered
}

// Analyze runs every aggregate over the listings.
func (a *Analyzer) Analyze(ctx context.Context, city string, years []int, listings []domain.Listing) (*domain.MarketAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := &domain.MarketAnalysis{
		City:        city,
		Years:       years,
		RecordCount: len(listings),
		Popularity: map[string][]domain.BucketCount{
			domain.ColRooms:      bucketCounts(listings, domain.ColRooms),
			domain.ColFloor:      bucketCounts(listings, domain.ColFloor),
			domain.ColFloorCount: bucketCounts(listings, domain.ColFloorCount),
		},
		AmenityCorrelations:  amenityCorrelations(listings),
		DistanceRelations:    distanceRelations(listings),
		PriceByRooms:         priceQuartilesByRooms(listings),
		BuildYearByCondition: buildYearQuartilesByCondition(listings),
		OwnershipCondition:   ownershipConditionStats(listings),
		CentreDistancePoints: scatterSeries(listings, domain.ColCentreDistance, domain.ColPrice),
		BuildYearPoints:      scatterSeries(listings, domain.ColBuildYear, domain.ColPrice),
		BuildYearFloor:       buildYearFloorMatrix(listings),
	}

	a.logger.InfoContext(ctx, "Computed market analysis",
		slog.String("city", city),
		slog.Int("record_count", analysis.RecordCount))

	return analysis, nil
}

// PricePerSqmSeries returns each listing's price per square meter, keeping
// only values strictly inside the plausible range.
func PricePerSqmSeries(listings []domain.Listing) []float64 {
	series := make([]float64, 0, len(listings))
	for i := range listings {
		v := listings[i].PricePerSqm()
		if domain.Missing(v) || v <= config.PricePerSqmMin || v >= config.PricePerSqmMax {
			continue
		}
		series = append(series, v)
	}
	return series
}

// HeatPoints prepares weighted map points from listings with coordinates
// and a plausible price per square meter. Weights are min-max normalized.
func (a *Analyzer) HeatPoints(listings []domain.Listing) *domain.HeatData {
	type rawPoint struct {
		lat, lon, value float64
	}

	var raw []rawPoint
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := range listings {
		l := &listings[i]
		if !l.HasCoordinates() {
			continue
		}
		v := l.PricePerSqm()
		if domain.Missing(v) || v <= config.PricePerSqmMin || v >= config.PricePerSqmMax {
			continue
		}
		raw = append(raw, rawPoint{lat: l.Latitude, lon: l.Longitude, value: v})
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	data := &domain.HeatData{
		Center: orb.Point{config.CityCentreLon, config.CityCentreLat},
	}
	if len(raw) == 0 {
		data.Bound = orb.Bound{Min: data.Center, Max: data.Center}
		return data
	}

	spread := maxV - minV
	var multi orb.MultiPoint
	for _, p := range raw {
		weight := 1.0
		if spread > 0 {
			weight = (p.value - minV) / spread
		}
		data.Points = append(data.Points, domain.HeatPoint{Lat: p.lat, Lon: p.lon, Weight: weight})
		multi = append(multi, orb.Point{p.lon, p.lat})
	}
	data.Bound = multi.Bound()

	return data
}

// amenityCorrelations correlates price per square meter with each amenity
// flag, pairwise over the full flag set.
func amenityCorrelations(listings []domain.Listing) domain.CorrelationMatrix {
	labels := append([]string{"pricePerSqm"}, domain.FlagColumns()...)

	series := make([][]float64, len(labels))
	series[0] = make([]float64, len(listings))
	for i := range listings {
		series[0][i] = listings[i].PricePerSqm()
	}
	for j, column := range domain.FlagColumns() {
		values := make([]float64, len(listings))
		for i := range listings {
			values[i] = flagValue(&listings[i], column)
		}
		series[j+1] = values
	}

	matrix := domain.CorrelationMatrix{Labels: labels, Values: make([][]float64, len(labels))}
	for i := range labels {
		matrix.Values[i] = make([]float64, len(labels))
		for j := range labels {
			matrix.Values[i][j] = pearson(series[i], series[j])
		}
	}
	return matrix
}

func flagValue(l *domain.Listing, column string) float64 {
	v, _ := l.StringField(column)
	switch v {
	case domain.FlagYes, "yes":
		return 1
	case domain.FlagNo, "no":
		return 0
	}
	return math.NaN()
}

func distanceRelations(listings []domain.Listing) []domain.DistanceRelation {
	columns := append([]string{domain.ColPoiCount}, domain.DistanceColumns()...)
	prices := columnValues(listings, domain.ColPrice)

	relations := make([]domain.DistanceRelation, 0, len(columns))
	for _, column := range columns {
		values := columnValues(listings, column)
		relations = append(relations, domain.DistanceRelation{
			Column:      column,
			Correlation: pearson(values, prices),
			Points:      pairPoints(values, prices),
		})
	}
	return relations
}

func scatterSeries(listings []domain.Listing, xCol, yCol string) []domain.ScatterPoint {
	return pairPoints(columnValues(listings, xCol), columnValues(listings, yCol))
}

func pairPoints(xs, ys []float64) []domain.ScatterPoint {
	points := make([]domain.ScatterPoint, 0, len(xs))
	for i := range xs {
		if domain.Missing(xs[i]) || domain.Missing(ys[i]) {
			continue
		}
		points = append(points, domain.ScatterPoint{X: xs[i], Y: ys[i]})
	}
	return points
}

func bucketCounts(listings []domain.Listing, column string) []domain.BucketCount {
	counts := make(map[float64]int)
	for i := range listings {
		v, _ := listings[i].NumericField(column)
		if domain.Missing(v) {
			continue
		}
		counts[v]++
	}

	buckets := make([]domain.BucketCount, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, domain.BucketCount{Bucket: v, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
	return buckets
}

func priceQuartilesByRooms(listings []domain.Listing) []domain.GroupQuartiles {
	byRooms := make(map[float64][]float64)
	for i := range listings {
		l := &listings[i]
		if domain.Missing(l.Rooms) || domain.Missing(l.Price) {
			continue
		}
		byRooms[l.Rooms] = append(byRooms[l.Rooms], l.Price)
	}

	rooms := make([]float64, 0, len(byRooms))
	for r := range byRooms {
		rooms = append(rooms, r)
	}
	sort.Float64s(rooms)

	groups := make([]domain.GroupQuartiles, 0, len(rooms))
	for _, r := range rooms {
		prices := byRooms[r]
		groups = append(groups, domain.GroupQuartiles{
			Group:  strconv.FormatFloat(r, 'f', -1, 64),
			Count:  len(prices),
			Min:    quantile(prices, 0),
			Q1:     quantile(prices, 0.25),
			Median: median(prices),
			Q3:     quantile(prices, 0.75),
			Max:    quantile(prices, 1),
		})
	}
	return groups
}

func buildYearQuartilesByCondition(listings []domain.Listing) []domain.GroupQuartiles {
	byCondition := make(map[string][]float64)
	for i := range listings {
		l := &listings[i]
		if l.Condition == "" || domain.Missing(l.BuildYear) {
			continue
		}
		byCondition[l.Condition] = append(byCondition[l.Condition], l.BuildYear)
	}

	conditions := make([]string, 0, len(byCondition))
	for c := range byCondition {
		conditions = append(conditions, c)
	}
	sort.Strings(conditions)

	groups := make([]domain.GroupQuartiles, 0, len(conditions))
	for _, c := range conditions {
		years := byCondition[c]
		groups = append(groups, domain.GroupQuartiles{
			Group:  c,
			Count:  len(years),
			Min:    quantile(years, 0),
			Q1:     quantile(years, 0.25),
			Median: median(years),
			Q3:     quantile(years, 0.75),
			Max:    quantile(years, 1),
		})
	}
	return groups
}

func ownershipConditionStats(listings []domain.Listing) []domain.OwnershipConditionStats {
	type key struct{ ownership, condition string }

	byKey := make(map[key][]float64)
	for i := range listings {
		l := &listings[i]
		if l.Ownership == "" || l.Condition == "" || domain.Missing(l.Price) {
			continue
		}
		k := key{ownership: l.Ownership, condition: l.Condition}
		byKey[k] = append(byKey[k], l.Price)
	}

	keys := make([]key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ownership != keys[j].ownership {
			return keys[i].ownership < keys[j].ownership
		}
		return keys[i].condition < keys[j].condition
	})

	stats := make([]domain.OwnershipConditionStats, 0, len(keys))
	for _, k := range keys {
		prices := byKey[k]
		stats = append(stats, domain.OwnershipConditionStats{
			Ownership: k.ownership,
			Condition: k.condition,
			Count:     len(prices),
			Mean:      mean(prices),
			Median:    median(prices),
			Min:       quantile(prices, 0),
			Max:       quantile(prices, 1),
		})
	}
	return stats
}

// buildYearFloorMatrix counts listings per (build decade, floor) pair.
func buildYearFloorMatrix(listings []domain.Listing) domain.OccupancyMatrix {
	type cell struct {
		decade float64
		floor  float64
	}

	counts := make(map[cell]int)
	decades := make(map[float64]struct{})
	floors := make(map[float64]struct{})
	for i := range listings {
		l := &listings[i]
		if domain.Missing(l.BuildYear) || domain.Missing(l.Floor) {
			continue
		}
		decade := math.Floor(l.BuildYear/10) * 10
		counts[cell{decade: decade, floor: l.Floor}]++
		decades[decade] = struct{}{}
		floors[l.Floor] = struct{}{}
	}

	rowValues := sortedKeys(decades)
	colValues := sortedKeys(floors)

	matrix := domain.OccupancyMatrix{
		RowLabels: make([]string, len(rowValues)),
		ColLabels: make([]string, len(colValues)),
		Counts:    make([][]int, len(rowValues)),
	}
	for i, decade := range rowValues {
		matrix.RowLabels[i] = fmt.Sprintf("%ds", int(decade))
		matrix.Counts[i] = make([]int, len(colValues))
		for j, floor := range colValues {
			matrix.Counts[i][j] = counts[cell{decade: decade, floor: floor}]
		}
	}
	for j, floor := range colValues {
		matrix.ColLabels[j] = strconv.FormatFloat(floor, 'f', -1, 64)
	}

	return matrix
}

func sortedKeys(set map[float64]struct{}) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

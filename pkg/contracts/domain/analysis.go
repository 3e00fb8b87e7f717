package domain

import "github.com/paulmach/orb"

// CorrelationMatrix is a symmetric Pearson correlation matrix over the
// labeled series.
type CorrelationMatrix struct {
	Labels []string
	Values [][]float64
}

// DistanceRelation captures how one POI distance column relates to price.
type DistanceRelation struct {
	Column      string
	Correlation float64
	Points      []ScatterPoint
}

// ScatterPoint is one (x, y) observation.
type ScatterPoint struct {
	X float64
	Y float64
}

// BucketCount is an integer-valued bucket and how many listings fall in it.
type BucketCount struct {
	Bucket float64
	Count  int
}

// GroupQuartiles holds the five-number price summary for one group.
type GroupQuartiles struct {
	Group  string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// OwnershipConditionStats is the price profile of one (ownership,
// condition) combination.
type OwnershipConditionStats struct {
	Ownership string
	Condition string
	Count     int
	Mean      float64
	Median    float64
	Min       float64
	Max       float64
}

// OccupancyMatrix counts listings per (row, column) label pair.
type OccupancyMatrix struct {
	RowLabels []string
	ColLabels []string
	Counts    [][]int
}

// HeatPoint is one weighted map location. Weight is the listing's price
// per square meter normalized to [0, 1] across the point set.
type HeatPoint struct {
	Lat    float64
	Lon    float64
	Weight float64
}

// HeatData is the prepared input for the heat map artifact.
type HeatData struct {
	Points []HeatPoint
	Center orb.Point
	Bound  orb.Bound
}

// MarketAnalysis aggregates everything the chart workbook renders.
type MarketAnalysis struct {
	City                 string
	Years                []int
	RecordCount          int
	AmenityCorrelations  CorrelationMatrix
	DistanceRelations    []DistanceRelation
	Popularity           map[string][]BucketCount
	PriceByRooms         []GroupQuartiles
	BuildYearByCondition []GroupQuartiles
	OwnershipCondition   []OwnershipConditionStats
	CentreDistancePoints []ScatterPoint
	BuildYearPoints      []ScatterPoint
	BuildYearFloor       OccupancyMatrix
}

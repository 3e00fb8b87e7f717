package config

// Dataset processing constants. These mirror the inline constants of the
// exploratory scripts this pipeline grew out of.
const (
	// DefaultCity is the city the visualizer filters to.
	DefaultCity = "krakow"

	// CityCentreLat and CityCentreLon anchor the heat map marker.
	CityCentreLat = 50.0614
	CityCentreLon = 19.9366

	// PricePerSqmMin and PricePerSqmMax bound plausible price-per-square-meter
	// values; records outside the open interval are excluded from the heat map.
	PricePerSqmMin = 50.0
	PricePerSqmMax = 100000.0

	// ElevatorFloorThreshold is the floor count above which a missing
	// hasElevator flag is filled with "yes".
	ElevatorFloorThreshold = 5

	// MissingMapSampleLimit caps the number of records rendered into the
	// missing-value map workbook.
	MissingMapSampleLimit = 2000

	// HeatRadius and HeatMinOpacity configure the heat layer.
	HeatRadius     = 15
	HeatMinOpacity = 0.4
)

// HeatGradient maps normalized intensity stops to colors for the heat layer.
func HeatGradient() map[float64]string {
	return map[float64]string{
		0.0: "blue",
		0.3: "lime",
		0.6: "yellow",
		1.0: "red",
	}
}

// DefaultYears are the partition years the visualizer combines.
func DefaultYears() []int {
	return []int{2023, 2024}
}

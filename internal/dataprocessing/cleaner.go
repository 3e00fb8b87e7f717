package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"aptcli/internal/config"
	"aptcli/pkg/contracts/domain"
)

// correlatedDistance maps each POI distance column to the column whose
// values track it most closely in the source dataset. Used as the first
// fallback when filling a missing distance.
var correlatedDistance = map[string]string{
	domain.ColSchoolDistance:       domain.ColKindergartenDistance,
	domain.ColKindergartenDistance: domain.ColSchoolDistance,
	domain.ColClinicDistance:       domain.ColPharmacyDistance,
	domain.ColPharmacyDistance:     domain.ColClinicDistance,
	domain.ColPostOfficeDistance:   domain.ColRestaurantDistance,
	domain.ColRestaurantDistance:   domain.ColPostOfficeDistance,
	domain.ColCollegeDistance:      domain.ColCentreDistance,
}

// CleanResult summarizes what one cleaning pass changed.
type CleanResult struct {
	InputCount     int
	OutputCount    int
	DuplicatesDrop int
	Filled         map[string]int
	StillMissing   map[string]int
}

// Cleaner normalizes raw listings: deduplicates, fills missing values from
// column and group statistics, and normalizes categorical encodings. Rows
// are always patched, never rejected.
type Cleaner struct {
	logger *slog.Logger
}

func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean applies the normalization rules in order and returns the cleaned
// records. The input slice is not modified.
func (c *Cleaner) Clean(ctx context.Context, listings []domain.Listing) ([]domain.Listing, *CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	result := &CleanResult{
		InputCount:   len(listings),
		Filled:       make(map[string]int),
		StillMissing: make(map[string]int),
	}

	cleaned := c.deduplicate(listings, result)

	c.fillCondition(cleaned, result)
	c.fillWithMode(cleaned, domain.ColBuildingMaterial, result)
	c.fillWithMode(cleaned, domain.ColType, result)
	c.fillBuildYear(cleaned, result)
	c.fillFloorCount(cleaned, result)
	c.fillFloor(cleaned, result)
	c.fillDistances(cleaned, result)
	c.fillElevator(cleaned, result)
	c.normalizeFlags(cleaned)
	c.normalizeOwnership(cleaned)

	result.OutputCount = len(cleaned)
	c.reportRemaining(ctx, cleaned, result)

	return cleaned, result, nil
}

// deduplicate keeps the first occurrence of each id.
func (c *Cleaner) deduplicate(listings []domain.Listing, result *CleanResult) []domain.Listing {
	seen := make(map[string]struct{}, len(listings))
	cleaned := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if _, dup := seen[l.ID]; dup {
			result.DuplicatesDrop++
			continue
		}
		seen[l.ID] = struct{}{}
		cleaned = append(cleaned, l)
	}
	return cleaned
}

// fillCondition labels unrated listings by where their price falls within
// the city's observed price range for premium, then low; anything outside
// both ranges is medium.
func (c *Cleaner) fillCondition(listings []domain.Listing, result *CleanResult) {
	type priceRange struct {
		min, max float64
		seen     bool
	}

	ranges := make(map[string]map[string]*priceRange)
	for i := range listings {
		l := &listings[i]
		if l.Condition == "" || domain.Missing(l.Price) {
			continue
		}
		byCondition, ok := ranges[l.City]
		if !ok {
			byCondition = make(map[string]*priceRange)
			ranges[l.City] = byCondition
		}
		r, ok := byCondition[l.Condition]
		if !ok {
			r = &priceRange{min: l.Price, max: l.Price, seen: true}
			byCondition[l.Condition] = r
			continue
		}
		r.min = math.Min(r.min, l.Price)
		r.max = math.Max(r.max, l.Price)
	}

	inRange := func(city, condition string, price float64) bool {
		byCondition, ok := ranges[city]
		if !ok {
			return false
		}
		r, ok := byCondition[condition]
		return ok && r.seen && price >= r.min && price <= r.max
	}

	for i := range listings {
		l := &listings[i]
		if l.Condition != "" {
			continue
		}
		switch {
		case !domain.Missing(l.Price) && inRange(l.City, domain.ConditionPremium, l.Price):
			l.Condition = domain.ConditionPremium
		case !domain.Missing(l.Price) && inRange(l.City, domain.ConditionLow, l.Price):
			l.Condition = domain.ConditionLow
		default:
			l.Condition = domain.ConditionMedium
		}
		result.Filled[domain.ColCondition]++
	}
}

// fillWithMode replaces missing values in a categorical column with the
// most frequent value.
func (c *Cleaner) fillWithMode(listings []domain.Listing, column string, result *CleanResult) {
	values := make([]string, len(listings))
	for i := range listings {
		values[i], _ = listings[i].StringField(column)
	}
	fill := mode(values)
	if fill == "" {
		return
	}

	for i := range listings {
		if v, _ := listings[i].StringField(column); v == "" {
			listings[i].SetStringField(column, fill)
			result.Filled[column]++
		}
	}
}

// fillBuildYear uses the median build year within the row's city, falling
// back to the overall median for cities with no known years.
func (c *Cleaner) fillBuildYear(listings []domain.Listing, result *CleanResult) {
	byCity := make(map[string][]float64)
	for i := range listings {
		byCity[listings[i].City] = append(byCity[listings[i].City], listings[i].BuildYear)
	}

	cityMedian := make(map[string]float64, len(byCity))
	for city, years := range byCity {
		cityMedian[city] = median(years)
	}
	overall := median(columnValues(listings, domain.ColBuildYear))

	for i := range listings {
		l := &listings[i]
		if !domain.Missing(l.BuildYear) {
			continue
		}
		fill := cityMedian[l.City]
		if domain.Missing(fill) {
			fill = overall
		}
		if domain.Missing(fill) {
			continue
		}
		l.BuildYear = math.Round(fill)
		result.Filled[domain.ColBuildYear]++
	}
}

// fillFloorCount uses the rounded column mean.
func (c *Cleaner) fillFloorCount(listings []domain.Listing, result *CleanResult) {
	m := mean(columnValues(listings, domain.ColFloorCount))
	if domain.Missing(m) {
		return
	}
	fill := math.Round(m)

	for i := range listings {
		if domain.Missing(listings[i].FloorCount) {
			listings[i].FloorCount = fill
			result.Filled[domain.ColFloorCount]++
		}
	}
}

// fillFloor uses the rounded mean floor among rows sharing the same
// floorCount, falling back to the overall mean.
func (c *Cleaner) fillFloor(listings []domain.Listing, result *CleanResult) {
	byFloorCount := make(map[float64][]float64)
	for i := range listings {
		l := &listings[i]
		if domain.Missing(l.FloorCount) {
			continue
		}
		byFloorCount[l.FloorCount] = append(byFloorCount[l.FloorCount], l.Floor)
	}

	groupMean := make(map[float64]float64, len(byFloorCount))
	for fc, floors := range byFloorCount {
		groupMean[fc] = mean(floors)
	}
	overall := mean(columnValues(listings, domain.ColFloor))

	for i := range listings {
		l := &listings[i]
		if !domain.Missing(l.Floor) {
			continue
		}
		fill := overall
		if !domain.Missing(l.FloorCount) {
			if m, ok := groupMean[l.FloorCount]; ok && !domain.Missing(m) {
				fill = m
			}
		}
		if domain.Missing(fill) {
			continue
		}
		l.Floor = math.Round(fill)
		result.Filled[domain.ColFloor]++
	}
}

// fillDistances patches each missing POI distance from its correlated
// column on the same row, then fills the remainder with the city mean.
func (c *Cleaner) fillDistances(listings []domain.Listing, result *CleanResult) {
	for _, column := range domain.DistanceColumns() {
		partner := correlatedDistance[column]

		for i := range listings {
			l := &listings[i]
			v, _ := l.NumericField(column)
			if !domain.Missing(v) {
				continue
			}
			if partner == "" {
				continue
			}
			if pv, ok := l.NumericField(partner); ok && !domain.Missing(pv) {
				l.SetNumericField(column, pv)
				result.Filled[column]++
			}
		}

		cityMean := c.cityMeans(listings, column)
		for i := range listings {
			l := &listings[i]
			v, _ := l.NumericField(column)
			if !domain.Missing(v) {
				continue
			}
			fill, ok := cityMean[l.City]
			if !ok || domain.Missing(fill) {
				continue
			}
			l.SetNumericField(column, fill)
			result.Filled[column]++
		}
	}
}

func (c *Cleaner) cityMeans(listings []domain.Listing, column string) map[string]float64 {
	byCity := make(map[string][]float64)
	for i := range listings {
		v, _ := listings[i].NumericField(column)
		byCity[listings[i].City] = append(byCity[listings[i].City], v)
	}

	means := make(map[string]float64, len(byCity))
	for city, values := range byCity {
		means[city] = mean(values)
	}
	return means
}

// fillElevator assumes buildings above the threshold floor count have one.
func (c *Cleaner) fillElevator(listings []domain.Listing, result *CleanResult) {
	for i := range listings {
		l := &listings[i]
		if l.HasElevator != "" {
			continue
		}
		if !domain.Missing(l.FloorCount) && l.FloorCount > config.ElevatorFloorThreshold {
			l.HasElevator = "yes"
		} else {
			l.HasElevator = "no"
		}
		result.Filled[domain.ColHasElevator]++
	}
}

// normalizeFlags rewrites yes/no flag values as 1/0.
func (c *Cleaner) normalizeFlags(listings []domain.Listing) {
	for i := range listings {
		for _, column := range domain.FlagColumns() {
			switch v, _ := listings[i].StringField(column); v {
			case "yes":
				listings[i].SetStringField(column, domain.FlagYes)
			case "no":
				listings[i].SetStringField(column, domain.FlagNo)
			}
		}
	}
}

// normalizeOwnership translates the raw Polish share-ownership label.
func (c *Cleaner) normalizeOwnership(listings []domain.Listing) {
	for i := range listings {
		if listings[i].Ownership == domain.OwnershipShareRaw {
			listings[i].Ownership = domain.OwnershipPart
		}
	}
}

// reportRemaining logs columns that still carry missing values after all
// fill rules ran. Diagnostic only.
func (c *Cleaner) reportRemaining(ctx context.Context, listings []domain.Listing, result *CleanResult) {
	for _, column := range domain.Columns() {
		for i := range listings {
			if listings[i].FieldMissing(column) {
				result.StillMissing[column]++
			}
		}
	}

	for column, count := range result.StillMissing {
		c.logger.WarnContext(ctx, "Column still has missing values after cleaning",
			slog.String("column", column),
			slog.Int("count", count))
	}
}

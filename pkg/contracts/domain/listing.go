package domain

import (
	"math"
	"strings"
)

// OfferType identifies the market side a listing file belongs to.
type OfferType string

const (
	OfferSale OfferType = "sale"
	OfferRent OfferType = "rent"
)

// Condition vocabulary used by the source dataset.
const (
	ConditionLow     = "low"
	ConditionMedium  = "medium"
	ConditionPremium = "premium"
)

// Ownership vocabulary. The raw dataset mixes in the Polish label for
// fractional ownership, which cleaning maps to OwnershipPart.
const (
	OwnershipCondominium = "condominium"
	OwnershipCooperative = "cooperative"
	OwnershipPart        = "part ownership"
	OwnershipShareRaw    = "udział"
)

// Flag values after encoding normalization.
const (
	FlagYes = "1"
	FlagNo  = "0"
)

// Listing is one apartment price record from the source dataset.
//
// Missing-value semantics: numeric fields carry NaN, categorical and flag
// fields carry the empty string. Both render as empty CSV cells. Year is a
// partition attribute stamped from the source filename and is not part of
// the dataset schema.
type Listing struct {
	ID               string
	City             string
	Type             string
	SquareMeters     float64
	Rooms            float64
	Floor            float64
	FloorCount       float64
	BuildYear        float64
	Latitude         float64
	Longitude        float64
	CentreDistance   float64
	PoiCount         float64
	SchoolDistance   float64
	ClinicDistance   float64
	PostOfficeDist   float64
	KindergartenDist float64
	RestaurantDist   float64
	CollegeDistance  float64
	PharmacyDistance float64
	Ownership        string
	BuildingMaterial string
	Condition        string
	HasParkingSpace  string
	HasBalcony       string
	HasElevator      string
	HasSecurity      string
	HasStorageRoom   string
	Price            float64

	Year int `json:"-"`
}

// Missing reports whether a numeric field value is absent.
func Missing(v float64) bool {
	return math.IsNaN(v)
}

// MissingValue is the NaN sentinel used for absent numeric fields.
func MissingValue() float64 {
	return math.NaN()
}

// PricePerSqm returns price divided by area, or NaN when either is missing
// or the area is zero.
func (l *Listing) PricePerSqm() float64 {
	if Missing(l.Price) || Missing(l.SquareMeters) || l.SquareMeters == 0 {
		return math.NaN()
	}
	return l.Price / l.SquareMeters
}

// InCity reports whether the listing belongs to the given city,
// case-insensitively.
func (l *Listing) InCity(city string) bool {
	return strings.EqualFold(l.City, city)
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l *Listing) HasCoordinates() bool {
	return !Missing(l.Latitude) && !Missing(l.Longitude)
}

// FlagColumns lists the boolean-like amenity columns subject to yes/no
// encoding normalization, in schema order.
func FlagColumns() []string {
	return []string{
		ColHasParkingSpace,
		ColHasBalcony,
		ColHasElevator,
		ColHasSecurity,
		ColHasStorageRoom,
	}
}

// DistanceColumns lists the point-of-interest distance columns used by the
// cleaning rules, in schema order.
func DistanceColumns() []string {
	return []string{
		ColSchoolDistance,
		ColClinicDistance,
		ColPostOfficeDistance,
		ColKindergartenDistance,
		ColRestaurantDistance,
		ColCollegeDistance,
		ColPharmacyDistance,
	}
}

// Dataset column names.
const (
	ColID                   = "id"
	ColCity                 = "city"
	ColType                 = "type"
	ColSquareMeters         = "squareMeters"
	ColRooms                = "rooms"
	ColFloor                = "floor"
	ColFloorCount           = "floorCount"
	ColBuildYear            = "buildYear"
	ColLatitude             = "latitude"
	ColLongitude            = "longitude"
	ColCentreDistance       = "centreDistance"
	ColPoiCount             = "poiCount"
	ColSchoolDistance       = "schoolDistance"
	ColClinicDistance       = "clinicDistance"
	ColPostOfficeDistance   = "postOfficeDistance"
	ColKindergartenDistance = "kindergartenDistance"
	ColRestaurantDistance   = "restaurantDistance"
	ColCollegeDistance      = "collegeDistance"
	ColPharmacyDistance     = "pharmacyDistance"
	ColOwnership            = "ownership"
	ColBuildingMaterial     = "buildingMaterial"
	ColCondition            = "condition"
	ColHasParkingSpace      = "hasParkingSpace"
	ColHasBalcony           = "hasBalcony"
	ColHasElevator          = "hasElevator"
	ColHasSecurity          = "hasSecurity"
	ColHasStorageRoom       = "hasStorageRoom"
	ColPrice                = "price"
)

// Columns returns the canonical dataset column order used for CSV output.
func Columns() []string {
	return []string{
		ColID, ColCity, ColType, ColSquareMeters, ColRooms, ColFloor,
		ColFloorCount, ColBuildYear, ColLatitude, ColLongitude,
		ColCentreDistance, ColPoiCount, ColSchoolDistance, ColClinicDistance,
		ColPostOfficeDistance, ColKindergartenDistance, ColRestaurantDistance,
		ColCollegeDistance, ColPharmacyDistance, ColOwnership,
		ColBuildingMaterial, ColCondition, ColHasParkingSpace, ColHasBalcony,
		ColHasElevator, ColHasSecurity, ColHasStorageRoom, ColPrice,
	}
}

// NumericField returns the value of a numeric column by name. The second
// result is false for columns that are not numeric.
func (l *Listing) NumericField(column string) (float64, bool) {
	switch column {
	case ColSquareMeters:
		return l.SquareMeters, true
	case ColRooms:
		return l.Rooms, true
	case ColFloor:
		return l.Floor, true
	case ColFloorCount:
		return l.FloorCount, true
	case ColBuildYear:
		return l.BuildYear, true
	case ColLatitude:
		return l.Latitude, true
	case ColLongitude:
		return l.Longitude, true
	case ColCentreDistance:
		return l.CentreDistance, true
	case ColPoiCount:
		return l.PoiCount, true
	case ColSchoolDistance:
		return l.SchoolDistance, true
	case ColClinicDistance:
		return l.ClinicDistance, true
	case ColPostOfficeDistance:
		return l.PostOfficeDist, true
	case ColKindergartenDistance:
		return l.KindergartenDist, true
	case ColRestaurantDistance:
		return l.RestaurantDist, true
	case ColCollegeDistance:
		return l.CollegeDistance, true
	case ColPharmacyDistance:
		return l.PharmacyDistance, true
	case ColPrice:
		return l.Price, true
	}
	return 0, false
}

// SetNumericField sets the value of a numeric column by name. It returns
// false for columns that are not numeric.
func (l *Listing) SetNumericField(column string, v float64) bool {
	switch column {
	case ColSquareMeters:
		l.SquareMeters = v
	case ColRooms:
		l.Rooms = v
	case ColFloor:
		l.Floor = v
	case ColFloorCount:
		l.FloorCount = v
	case ColBuildYear:
		l.BuildYear = v
	case ColLatitude:
		l.Latitude = v
	case ColLongitude:
		l.Longitude = v
	case ColCentreDistance:
		l.CentreDistance = v
	case ColPoiCount:
		l.PoiCount = v
	case ColSchoolDistance:
		l.SchoolDistance = v
	case ColClinicDistance:
		l.ClinicDistance = v
	case ColPostOfficeDistance:
		l.PostOfficeDist = v
	case ColKindergartenDistance:
		l.KindergartenDist = v
	case ColRestaurantDistance:
		l.RestaurantDist = v
	case ColCollegeDistance:
		l.CollegeDistance = v
	case ColPharmacyDistance:
		l.PharmacyDistance = v
	case ColPrice:
		l.Price = v
	default:
		return false
	}
	return true
}

// StringField returns the value of a categorical column by name. The second
// result is false for columns that are not categorical.
func (l *Listing) StringField(column string) (string, bool) {
	switch column {
	case ColID:
		return l.ID, true
	case ColCity:
		return l.City, true
	case ColType:
		return l.Type, true
	case ColOwnership:
		return l.Ownership, true
	case ColBuildingMaterial:
		return l.BuildingMaterial, true
	case ColCondition:
		return l.Condition, true
	case ColHasParkingSpace:
		return l.HasParkingSpace, true
	case ColHasBalcony:
		return l.HasBalcony, true
	case ColHasElevator:
		return l.HasElevator, true
	case ColHasSecurity:
		return l.HasSecurity, true
	case ColHasStorageRoom:
		return l.HasStorageRoom, true
	}
	return "", false
}

// SetStringField sets the value of a categorical column by name. It returns
// false for columns that are not categorical.
func (l *Listing) SetStringField(column, v string) bool {
	switch column {
	case ColID:
		l.ID = v
	case ColCity:
		l.City = v
	case ColType:
		l.Type = v
	case ColOwnership:
		l.Ownership = v
	case ColBuildingMaterial:
		l.BuildingMaterial = v
	case ColCondition:
		l.Condition = v
	case ColHasParkingSpace:
		l.HasParkingSpace = v
	case ColHasBalcony:
		l.HasBalcony = v
	case ColHasElevator:
		l.HasElevator = v
	case ColHasSecurity:
		l.HasSecurity = v
	case ColHasStorageRoom:
		l.HasStorageRoom = v
	default:
		return false
	}
	return true
}

// FieldMissing reports whether the named column is missing on the listing.
func (l *Listing) FieldMissing(column string) bool {
	if v, ok := l.NumericField(column); ok {
		return Missing(v)
	}
	if s, ok := l.StringField(column); ok {
		return s == ""
	}
	return false
}

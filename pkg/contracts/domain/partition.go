package domain

import "fmt"

// PartitionKey identifies one (offer type, year) dataset partition.
type PartitionKey struct {
	OfferType OfferType
	Year      int
}

// DirName returns the partition's output directory name, e.g. "sale_2023".
func (k PartitionKey) DirName() string {
	return fmt.Sprintf("%s_%d", k.OfferType, k.Year)
}

// String implements fmt.Stringer.
func (k PartitionKey) String() string {
	return k.DirName()
}

// Partition is a collection of listings sharing one (offer type, year) key.
// Partitions are independent; no cross-partition invariant is enforced.
type Partition struct {
	Key      PartitionKey
	Listings []Listing
}

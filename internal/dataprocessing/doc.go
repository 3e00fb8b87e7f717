// Package dataprocessing implements the pipeline core: parsing raw listing
// CSVs, assessing data quality, cleaning and normalizing records, splitting
// them into (offer type, year) partitions, and computing the aggregates the
// visualizer renders.
package dataprocessing

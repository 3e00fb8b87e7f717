// Package exporter writes pipeline artifacts: listing and report CSV files,
// the chart workbook, and the interactive price heat map.
package exporter

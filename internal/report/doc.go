// Package report provides the domain types for extracted NBA injury reports.
//
// The report package defines the Row record produced by the text parser, the
// Result payload returned by a pipeline run, stats aggregation, display
// filtering/sorting, and change detection between two extracted row sets.
package report

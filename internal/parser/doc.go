// Package parser turns the plain text extracted from an injury report PDF
// into ordered report rows.
//
// The input was a visually formatted table, so column boundaries survive only
// as runs of two or more spaces and a long reason cell may be broken across
// physical lines. The parser classifies each line as header noise, a new
// tabular row, or a continuation of the previous row's reason. The heuristic
// is inherently approximate: a reason can be truncated or over-extended when
// the source formatting shifts.
package parser

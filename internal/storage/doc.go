// Package storage persists pipeline artifacts under a local data directory:
// the downloaded report PDF, a CSV of the extracted rows, and the last good
// result for change detection between runs.
package storage

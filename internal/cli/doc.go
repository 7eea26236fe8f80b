// Package cli implements the injury-report command-line interface.
//
// It provides subcommands to run the HTTP server, perform a one-shot
// extraction, watch for report changes on an interval, and validate
// saved CSV exports.
package cli

// Package notifier provides notification interfaces and implementations
// for injury report changes.
//
// The notifier package supports posting status-change notifications to
// Twitter. It handles OAuth authentication, rate limiting, and message
// formatting.
package notifier

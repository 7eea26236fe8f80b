// Package artifact selects the most recently published report PDF among
// discovered candidate URLs.
//
// Publication time is only available as a timestamp embedded in the PDF
// filename (e.g. Injury-Report_2026-02-07_06_00AM.pdf). Candidates whose
// filename cannot be parsed rank at epoch zero so any dated document
// outranks them.
package artifact

package report

// Step identifies the pipeline stage that produced a failure.
type Step string

const (
	StepFetch      Step = "fetch"
	StepParseLinks Step = "parse_links"
	StepParsePDF   Step = "parse_pdf"
	StepSelenium   Step = "selenium"
)

// Meta describes the PDF a successful result was extracted from.
type Meta struct {
	PDFURL string `json:"pdfUrl"`
	// PDFName is the trailing filename of PDFURL.
	PDFName string `json:"pdfName"`
	// PublishedAt is the filename timestamp as UTC RFC3339, or null when
	// the filename carried no parseable timestamp.
	PublishedAt *string `json:"publishedAt"`
	// ReportTime is a human label like "06:00 AM ET", empty if unknown.
	ReportTime string `json:"reportTime,omitempty"`
	// GameDate is the report date as MM/DD/YYYY, empty if unknown.
	GameDate string `json:"gameDate,omitempty"`
}

// ResultError is the failure payload of a Result.
type ResultError struct {
	Message string `json:"message"`
	Step    Step   `json:"step"`
}

// Result is the single externally visible artifact of a pipeline run.
// Either OK is true and Meta/Stats/Rows are populated, or OK is false and
// Error identifies the failing stage. Partial row sets are never surfaced.
type Result struct {
	OK    bool         `json:"ok"`
	Meta  *Meta        `json:"meta,omitempty"`
	Stats *Stats       `json:"stats,omitempty"`
	Rows  []Row        `json:"rows,omitempty"`
	Error *ResultError `json:"error,omitempty"`
}

// Failure builds an error Result for the given step.
func Failure(step Step, message string) *Result {
	return &Result{
		OK:    false,
		Error: &ResultError{Message: message, Step: step},
	}
}

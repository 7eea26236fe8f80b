package artifact

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FallbackHost serves the same PDFs when the primary host rejects a fetch.
const FallbackHost = "https://ak-static.cms.nba.com/referee/injury/"

// timestampPattern matches the filename timestamp. The middle group is
// deliberately loose ("06_00", "0600", "6-30", "06:00") because the site has
// published all of these separator styles.
var timestampPattern = regexp.MustCompile(
	`(?i)Injury-Report_(\d{4}-\d{2}-\d{2})_([0-9_:\-]{1,8})(AM|PM)`)

var digitPattern = regexp.MustCompile(`\D`)

// Candidate is a discovered PDF URL with its rank key.
type Candidate struct {
	URL string `json:"url"`
	// TimestampMillis is the filename timestamp as epoch milliseconds,
	// 0 when the filename carries no parseable timestamp.
	TimestampMillis int64 `json:"timestamp"`
}

// timeParts is the decoded filename timestamp before 24-hour conversion.
type timeParts struct {
	date     string
	hour     int // 1..12
	minutes  int
	meridiem string // "AM" or "PM"
}

func parseTimeParts(url string) *timeParts {
	match := timestampPattern.FindStringSubmatch(FileName(url))
	if match == nil {
		return nil
	}
	digits := digitPattern.ReplaceAllString(match[2], "")
	if digits == "" {
		return nil
	}
	var hour, minutes int
	if len(digits) <= 2 {
		hour, _ = strconv.Atoi(digits)
	} else {
		hour, _ = strconv.Atoi(digits[:len(digits)-2])
		minutes, _ = strconv.Atoi(digits[len(digits)-2:])
	}
	if hour < 1 || hour > 12 || minutes > 59 {
		return nil
	}
	return &timeParts{
		date:     match[1],
		hour:     hour,
		minutes:  minutes,
		meridiem: strings.ToUpper(match[3]),
	}
}

// ParseTimestamp extracts the publication time from a PDF URL's filename and
// returns it as epoch milliseconds, or 0 when the filename is unparseable.
// The timestamp is constructed in local time.
func ParseTimestamp(url string) int64 {
	parts := parseTimeParts(url)
	if parts == nil {
		return 0
	}
	hour := parts.hour
	if parts.meridiem == "PM" && hour < 12 {
		hour += 12
	}
	if parts.meridiem == "AM" && hour == 12 {
		hour = 0
	}
	stamp := fmt.Sprintf("%sT%02d:%02d:00", parts.date, hour, parts.minutes)
	t, err := time.ParseInLocation("2006-01-02T15:04:05", stamp, time.Local)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// TimeLabel renders the filename timestamp as e.g. "06:00 AM ET", or ""
// when the filename is unparseable.
func TimeLabel(url string) string {
	parts := parseTimeParts(url)
	if parts == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d %s ET", parts.hour, parts.minutes, parts.meridiem)
}

// GameDate renders the filename date as MM/DD/YYYY, or "" when absent.
func GameDate(url string) string {
	parts := parseTimeParts(url)
	if parts == nil {
		return ""
	}
	segments := strings.SplitN(parts.date, "-", 3)
	if len(segments) != 3 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", segments[1], segments[2], segments[0])
}

// PublishedAt renders the filename timestamp as UTC RFC3339, or nil when the
// filename is unparseable.
func PublishedAt(url string) *string {
	millis := ParseTimestamp(url)
	if millis == 0 {
		return nil
	}
	formatted := time.UnixMilli(millis).UTC().Format(time.RFC3339)
	return &formatted
}

// FileName returns the trailing path segment of a URL.
func FileName(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}

// FallbackURL returns the alternate-host URL for a PDF, or "" when the
// original URL has no filename or already points at the fallback host.
func FallbackURL(url string) string {
	name := FileName(url)
	if name == "" {
		return ""
	}
	fallback := FallbackHost + name
	if fallback == url {
		return ""
	}
	return fallback
}

// SelectLatest picks the candidate with the greatest filename timestamp.
// The sort is stable, so among equal timestamps the first-discovered URL
// wins regardless of how many unparseable candidates surround it.
// Returns nil for an empty candidate list.
func SelectLatest(urls []string) *Candidate {
	if len(urls) == 0 {
		return nil
	}
	candidates := make([]Candidate, 0, len(urls))
	for _, url := range urls {
		candidates = append(candidates, Candidate{
			URL:             url,
			TimestampMillis: ParseTimestamp(url),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TimestampMillis > candidates[j].TimestampMillis
	})
	return &candidates[0]
}

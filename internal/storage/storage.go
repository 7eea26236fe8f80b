package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ttfl-live/injury-report/internal/report"
)

// CSVHeader is the column layout of a saved report CSV.
var CSVHeader = []string{"gameDate", "team", "player", "status", "reason"}

const lastResultFile = "last_result.json"

// Storage handles persistence of report artifacts.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed.
// A leading ~/ expands to the home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string { return s.dataDir }

// SavePDF writes the downloaded PDF bytes under its source filename and
// returns the path.
func (s *Storage) SavePDF(name string, pdf []byte) (string, error) {
	path := filepath.Join(s.dataDir, filepath.Base(name))
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return path, nil
}

// SaveCSV writes extracted rows as a CSV named after the PDF and returns
// the path. gameDate repeats on every row so the file stands alone.
func (s *Storage) SaveCSV(pdfName, gameDate string, rows []report.Row) (string, error) {
	name := strings.TrimSuffix(filepath.Base(pdfName), filepath.Ext(pdfName)) + ".csv"
	path := filepath.Join(s.dataDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for i := range rows {
		record := []string{gameDate, rows[i].Team, rows[i].Player, rows[i].Status, rows[i].Reason}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return path, nil
}

// SaveLastResult records the most recent successful result for diffing
// against the next run.
func (s *Storage) SaveLastResult(result *report.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	path := filepath.Join(s.dataDir, lastResultFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// LoadLastResult returns the previously saved result, or nil when none
// has been saved yet.
func (s *Storage) LoadLastResult() (*report.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, lastResultFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading result: %w", err)
	}
	var result report.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}
	return &result, nil
}

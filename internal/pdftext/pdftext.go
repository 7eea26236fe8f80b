// Package pdftext extracts best-effort plain text from PDF bytes.
//
// Extraction quality is whatever the backend produces; the row parser
// downstream is written to tolerate its artifacts. The backend is hidden
// behind the Extractor interface so it can be swapped without touching the
// pipeline.
package pdftext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor converts raw PDF bytes into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// PDFCPUExtractor extracts text using pdfcpu. pdfcpu works on files, so
// every call round-trips through a scratch directory.
type PDFCPUExtractor struct {
	tempDir string
}

// NewExtractor creates a pdfcpu-backed extractor.
func NewExtractor() *PDFCPUExtractor {
	tempDir := filepath.Join(os.TempDir(), "injury-report-pdf")
	os.MkdirAll(tempDir, 0755)
	return &PDFCPUExtractor{tempDir: tempDir}
}

// ExtractText extracts the text of every page, concatenated in page order
// with blank lines between pages.
func (e *PDFCPUExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	scratch, err := os.MkdirTemp(e.tempDir, "extract")
	if err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	pdfPath := filepath.Join(scratch, "report.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	outDir := filepath.Join(scratch, "pages")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("creating pages dir: %w", err)
	}
	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(pdfPath, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting pdf content: %w", err)
	}

	pageTexts, err := readPageTexts(outDir)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pdfCtx.PageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

// readPageTexts maps page numbers to the content pdfcpu wrote per page.
func readPageTexts(outDir string) (map[int]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("reading pages dir: %w", err)
	}

	pageTexts := make(map[int]string, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var pageNum int
		if _, err := fmt.Sscanf(name, "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(name, "page_%d", &pageNum); err != nil {
				continue
			}
		}
		content, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}
	return pageTexts, nil
}

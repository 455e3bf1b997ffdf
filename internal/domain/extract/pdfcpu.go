package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUExtractor extracts text using pdfcpu. pdfcpu works on files, so each
// call stages the document in a private temp directory that is removed when
// the call returns.
type PDFCPUExtractor struct {
	conf *model.Configuration
}

var _ TextExtractor = (*PDFCPUExtractor)(nil)

// NewPDFCPUExtractor creates a pdfcpu-backed extractor.
func NewPDFCPUExtractor() *PDFCPUExtractor {
	return &PDFCPUExtractor{conf: model.NewDefaultConfiguration()}
}

// Extract returns the per-page text of the document. It fails with
// ErrNoTextContent when no page yields any text.
func (e *PDFCPUExtractor) Extract(ctx context.Context, pdf []byte) ([]Page, error) {
	workDir, err := os.MkdirTemp("", "conversor-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	docPath := filepath.Join(workDir, "doc.pdf")
	if err := os.WriteFile(docPath, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage PDF: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outDir := filepath.Join(workDir, "pages")
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}
	if err := api.ExtractContentFile(docPath, outDir, nil, e.conf); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageTexts := make(map[int]string, pageCount)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted pages: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d content: %w", pageNum, err)
		}
		pageTexts[pageNum] = string(content)
	}

	pages := make([]Page, 0, pageCount)
	anyText := false
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := pageTexts[pageNum]
		if strings.TrimSpace(text) != "" {
			anyText = true
		}
		pages = append(pages, Page{Number: pageNum, Text: text})
	}
	if !anyText {
		return nil, ErrNoTextContent
	}
	return pages, nil
}

package extract

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/erathia/careerdoc/schema"
)

// PDFExtractor pulls plain text out of PDF files page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor(logger *slog.Logger) Extractor {
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Name() string {
	return "pdf"
}

func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

func (e *PDFExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

func (e *PDFExtractor) Extract(path string) (*schema.ContentData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader for %s: %w", path, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF %s has no pages", path)
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			e.logger.Warn("skipping null PDF page", "page", i, "path", path)
			continue
		}
		if text := e.extractPageText(page); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text extracted from PDF %s", path)
	}

	content := strings.Join(pages, "\n\n")
	e.logger.Debug("extracted PDF content",
		"path", path, "pages", numPages, "pages_with_text", len(pages), "length", len(content))

	return &schema.ContentData{
		ContentText:      content,
		ContentType:      "pdf",
		ExtractionMethod: "pdf_plaintext",
		ContentLength:    len(content),
		Language:         DetectLanguage(content),
		Title:            TitleFromFilename(path),
		Properties: map[string]string{
			"page_count": strconv.Itoa(numPages),
		},
	}, nil
}

// extractPageText tries the reader's plain-text view first, then falls
// back to joining the raw text tokens.
func (e *PDFExtractor) extractPageText(page pdf.Page) string {
	if text, err := page.GetPlainText(nil); err == nil && strings.TrimSpace(text) != "" {
		return cleanPDFText(text)
	}

	var sb strings.Builder
	content := page.Content()
	for i, token := range content.Text {
		sb.WriteString(token.S)
		if i < len(content.Text)-1 && !strings.HasSuffix(token.S, " ") && !strings.HasSuffix(token.S, "\n") {
			sb.WriteString(" ")
		}
	}
	return cleanPDFText(sb.String())
}

var (
	pdfRunsOfSpaces  = regexp.MustCompile(`[ \t]+`)
	pdfBlankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// cleanPDFText normalizes whitespace and fixes the common ligature
// artifacts PDF extraction leaves behind.
func cleanPDFText(text string) string {
	text = pdfRunsOfSpaces.ReplaceAllString(text, " ")
	text = pdfBlankLineRuns.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "ﬁ", "fi")
	text = strings.ReplaceAll(text, "ﬂ", "fl")
	return strings.TrimSpace(text)
}

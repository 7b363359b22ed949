package extract

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erathia/careerdoc/schema"
)

// TextExtractor handles plain text files.
type TextExtractor struct {
	logger *slog.Logger
}

// NewTextExtractor creates a plain text extractor.
func NewTextExtractor(logger *slog.Logger) Extractor {
	return &TextExtractor{logger: logger}
}

func (e *TextExtractor) Name() string {
	return "text"
}

func (e *TextExtractor) Extensions() []string {
	return []string{".txt", ".text", ".rtf"}
}

func (e *TextExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range e.Extensions() {
		if ext == valid {
			return true
		}
	}

	if ext == "" {
		base := strings.ToLower(filepath.Base(path))
		for _, known := range []string{"readme", "notes", "authors", "contributors"} {
			if base == known {
				return true
			}
		}
	}
	return false
}

func (e *TextExtractor) Extract(path string) (*schema.ContentData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file %s: %w", path, err)
	}

	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	text = strings.ReplaceAll(text, "\x00", "")

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no content extracted from %s", path)
	}

	e.logger.Debug("extracted text content", "path", path, "length", len(text))

	return &schema.ContentData{
		ContentText:      text,
		ContentType:      "text",
		ExtractionMethod: "plaintext",
		ContentLength:    len(text),
		Language:         DetectLanguage(text),
		Title:            TitleFromFilename(path),
	}, nil
}

// commonEnglishWords anchors the quick language heuristic.
var commonEnglishWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "a": {}, "an": {},
}

// DetectLanguage is a cheap heuristic: if more than 10% of the first
// hundred words are common English stopwords, the text is tagged "en";
// otherwise "unknown". Good enough for metadata, no more.
func DetectLanguage(text string) string {
	if text == "" {
		return "unknown"
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) > 100 {
		words = words[:100]
	}
	if len(words) == 0 {
		return "unknown"
	}

	hits := 0
	for _, word := range words {
		if _, ok := commonEnglishWords[word]; ok {
			hits++
		}
	}
	if float64(hits) > float64(len(words))*0.1 {
		return "en"
	}
	return "unknown"
}

// TitleFromFilename derives a readable title from a file path, turning
// "jane_doe_resume.txt" into "Jane Doe Resume".
func TitleFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return cases.Title(language.English).String(base)
}

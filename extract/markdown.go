package extract

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/erathia/careerdoc/schema"
)

const frontMatterSeparator = "---"

// MarkdownExtractor handles Markdown files: it strips YAML frontmatter into
// properties and derives a title from the frontmatter or the first heading.
type MarkdownExtractor struct {
	logger   *slog.Logger
	markdown goldmark.Markdown
}

// NewMarkdownExtractor creates a Markdown extractor backed by goldmark.
func NewMarkdownExtractor(logger *slog.Logger) Extractor {
	return &MarkdownExtractor{
		logger: logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
			),
		),
	}
}

func (e *MarkdownExtractor) Name() string {
	return "markdown"
}

func (e *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

func (e *MarkdownExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

func (e *MarkdownExtractor) Extract(path string) (*schema.ContentData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file %s: %w", path, err)
	}

	body, properties := splitFrontMatter(string(raw))
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("no content extracted from %s", path)
	}

	title := properties["title"]
	if title == "" {
		title = e.firstHeading(body)
	}
	if title == "" {
		title = TitleFromFilename(path)
	}

	e.logger.Debug("extracted markdown content",
		"path", path, "length", len(body), "frontmatter_keys", len(properties))

	return &schema.ContentData{
		ContentText:      body,
		ContentType:      "markdown",
		ExtractionMethod: "markdown",
		ContentLength:    len(body),
		Language:         DetectLanguage(body),
		Title:            title,
		Properties:       properties,
	}, nil
}

// firstHeading walks the goldmark AST and returns the text of the first
// heading, or "" when the document has none.
func (e *MarkdownExtractor) firstHeading(body string) string {
	source := []byte(body)
	doc := e.markdown.Parser().Parse(gmtext.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
				if text, ok := child.(*ast.Text); ok {
					sb.Write(text.Segment.Value(source))
				}
			}
			title = strings.TrimSpace(sb.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}

// splitFrontMatter separates a leading YAML frontmatter block from the
// document body. Values are flattened to strings; nested structures are
// ignored. Malformed frontmatter is left in the body untouched.
func splitFrontMatter(content string) (string, map[string]string) {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != frontMatterSeparator {
		return content, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterSeparator {
			closing = i
			break
		}
	}
	if closing < 0 {
		return content, nil
	}

	var parsed map[string]any
	block := strings.Join(lines[1:closing], "\n")
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return content, nil
	}

	properties := make(map[string]string, len(parsed))
	for key, value := range parsed {
		if s, ok := value.(string); ok {
			properties[key] = s
		} else if value != nil {
			properties[key] = fmt.Sprintf("%v", value)
		}
	}

	body := strings.Join(lines[closing+1:], "\n")
	return body, properties
}

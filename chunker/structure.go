package chunker

import (
	"regexp"
	"strings"
)

// ElementType classifies a structural line annotation.
type ElementType string

const (
	ElementHeader   ElementType = "header"
	ElementListItem ElementType = "list_item"
	ElementTableRow ElementType = "table_row"
)

// StructureElement is one annotated line of the document.
type StructureElement struct {
	Type       ElementType
	LineNumber int
	Level      int // header nesting level, 0 for non-headers
	Content    string
}

// StructureIndex is the precomputed list of header, list and table line
// annotations that segmentation strategies use to find break points.
type StructureIndex struct {
	Elements []StructureElement
}

var orderedListPrefix = regexp.MustCompile(`^\d+\.\s`)

// ExtractStructure scans normalized text once and records every header,
// list item and table-like row with its line number. Pure function over
// the line-split input.
func ExtractStructure(text string) StructureIndex {
	var index StructureIndex

	for lineNum, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if level, content, ok := parseHeaderLine(line); ok {
			index.Elements = append(index.Elements, StructureElement{
				Type:       ElementHeader,
				LineNumber: lineNum,
				Level:      level,
				Content:    content,
			})
			continue
		}

		if isListLine(line) {
			index.Elements = append(index.Elements, StructureElement{
				Type:       ElementListItem,
				LineNumber: lineNum,
				Content:    strings.TrimLeft(line, "-*+ \t"),
			})
			continue
		}

		if strings.Count(line, "|") >= 2 {
			index.Elements = append(index.Elements, StructureElement{
				Type:       ElementTableRow,
				LineNumber: lineNum,
				Content:    line,
			})
		}
	}

	return index
}

// Headers returns the header elements in document order.
func (s StructureIndex) Headers() []StructureElement {
	return s.byType(ElementHeader)
}

// ListItems returns the list item elements in document order.
func (s StructureIndex) ListItems() []StructureElement {
	return s.byType(ElementListItem)
}

// TableRows returns the table-like rows in document order.
func (s StructureIndex) TableRows() []StructureElement {
	return s.byType(ElementTableRow)
}

func (s StructureIndex) byType(t ElementType) []StructureElement {
	var out []StructureElement
	for _, el := range s.Elements {
		if el.Type == t {
			out = append(out, el)
		}
	}
	return out
}

// parseHeaderLine recognizes a markdown header: a run of 1-6 '#' characters
// followed by non-'#' content. The run length is the nesting level.
func parseHeaderLine(line string) (level int, content string, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	run := len(line) - len(strings.TrimLeft(line, "#"))
	if run > 6 {
		return 0, "", false
	}
	rest := strings.TrimSpace(line[run:])
	if rest == "" {
		return 0, "", false
	}
	return run, rest, true
}

func isListLine(line string) bool {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return orderedListPrefix.MatchString(line)
}

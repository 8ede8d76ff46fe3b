// Package docx converts Word documents to structured pages.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

const documentPart = "word/document.xml"

// headingStyle matches built-in heading style ids such as Heading1 or
// "heading 2".
var headingStyle = regexp.MustCompile(`(?i)^heading\s*([1-9])$`)

// Pages reads a .docx archive and returns its pages. Paragraphs styled as
// Title or Heading 1-3 become markdown headings. Explicit page breaks and
// the page breaks Word recorded when the file was last rendered start new
// pages.
func Pages(r io.ReaderAt, size int64) ([]domain.Page, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %w", domain.ErrInvalidInput, err)
	}

	for _, file := range archive.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		return parseDocument(rc)
	}
	return nil, fmt.Errorf("%w: %s missing", domain.ErrInvalidInput, documentPart)
}

// pageBuilder accumulates paragraphs into pages.
type pageBuilder struct {
	pages   []domain.Page
	current []string
}

func (b *pageBuilder) addParagraph(text string) {
	if text = strings.TrimSpace(text); text != "" {
		b.current = append(b.current, text)
	}
}

// breakPage starts a new page. Consecutive breaks with nothing between
// them collapse, since Word records both the explicit and rendered break.
func (b *pageBuilder) breakPage() {
	if len(b.current) == 0 {
		return
	}
	b.flush()
}

func (b *pageBuilder) flush() {
	b.pages = append(b.pages, domain.Page{
		Number:         len(b.pages) + 1,
		StructuredText: strings.Join(b.current, "\n\n"),
	})
	b.current = nil
}

func (b *pageBuilder) result() []domain.Page {
	if len(b.current) > 0 || len(b.pages) == 0 {
		b.flush()
	}
	return b.pages
}

// paragraphState tracks the paragraph being decoded.
type paragraphState struct {
	level int
	text  strings.Builder
}

// parseDocument streams word/document.xml so paragraphs inside tables
// keep their document order.
func parseDocument(r io.Reader) ([]domain.Page, error) {
	dec := xml.NewDecoder(r)
	var (
		pages  pageBuilder
		para   *paragraphState
		inText bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrParseFailure, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para = &paragraphState{}
			case "pStyle":
				if para != nil {
					para.level = headingLevel(attr(t, "val"))
				}
			case "pageBreakBefore":
				if attr(t, "val") != "0" && attr(t, "val") != "false" {
					pages.breakPage()
				}
			case "lastRenderedPageBreak":
				pages.breakPage()
			case "br":
				if attr(t, "type") == "page" {
					if para != nil {
						pages.addParagraph(para.render())
						para.reset()
					}
					pages.breakPage()
				} else if para != nil {
					para.text.WriteString(" ")
				}
			case "tab":
				if para != nil {
					para.text.WriteString(" ")
				}
			case "t":
				inText = true
			}

		case xml.CharData:
			if inText && para != nil {
				para.text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if para != nil {
					pages.addParagraph(para.render())
					para = nil
				}
			}
		}
	}

	return pages.result(), nil
}

func (p *paragraphState) render() string {
	text := strings.Join(strings.Fields(p.text.String()), " ")
	if text == "" || p.level == 0 || p.level > domain.MaxHeadingLevel {
		return text
	}
	return strings.Repeat("#", p.level) + " " + text
}

func (p *paragraphState) reset() {
	p.text.Reset()
}

// headingLevel maps a paragraph style id to a heading level, 0 for body text.
func headingLevel(style string) int {
	if strings.EqualFold(style, "Title") {
		return 1
	}
	m := headingStyle.FindStringSubmatch(style)
	if m == nil {
		return 0
	}
	level, _ := strconv.Atoi(m[1])
	return level
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

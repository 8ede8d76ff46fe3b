// Package local parses markdown, plain text, HTML, Word and PDF files
// in-process.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/logger"
	"github.com/custodia-labs/wilson-cli/internal/normalisers/docx"
	"github.com/custodia-labs/wilson-cli/internal/normalisers/html"
	"github.com/custodia-labs/wilson-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/wilson-cli/internal/normalisers/plaintext"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser reads documents from the local filesystem.
type Parser struct{}

// New creates a new local parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return "local"
}

// SupportedExtensions returns the file extensions this parser handles.
func SupportedExtensions() []string {
	return []string{".md", ".markdown", ".txt", ".html", ".htm", ".docx", ".pdf"}
}

// Supports reports whether path has an extension this parser handles.
func Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Parse returns the pages of the document at path.
// Text documents are split on form feeds, Word documents on page breaks
// and PDFs yield one page per PDF page. HTML is always a single page.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Page, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return parseText(path, func(s string) string { return s })
	case ".md", ".markdown":
		return parseText(path, markdown.Normalise)
	case ".html", ".htm":
		return parseHTML(path)
	case ".docx":
		return parseDocx(path)
	case ".pdf":
		return parsePDF(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

func parseText(path string, normalise func(string) string) ([]domain.Page, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	return plaintext.Pages(normalise(text)), nil
}

func parseHTML(path string) ([]domain.Page, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	structured, err := html.Normalise(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParseFailure, filepath.Base(path), err)
	}
	return []domain.Page{{Number: 1, StructuredText: structured}}, nil
}

func parseDocx(path string) ([]domain.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	pages, err := docx.Pages(f, info.Size())
	if err != nil {
		return nil, err
	}
	logger.Debug("DOCX %s: %d pages", filepath.Base(path), len(pages))
	return pages, nil
}

func parsePDF(ctx context.Context, path string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]domain.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.Page{Number: i}
		p := reader.Page(i)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				// Some pages fail to decode; keep numbering intact.
				logger.Warn("PDF page %d: %v", i, err)
			} else {
				page.StructuredText = text
			}
		}
		pages = append(pages, page)
	}

	logger.Debug("PDF %s: %d pages", filepath.Base(path), numPages)
	return pages, nil
}

// Package plaintext splits text documents into pages.
package plaintext

import (
	"strings"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// PageBreak separates pages in text documents.
const PageBreak = "\f"

// Pages splits text on form feeds into 1-based pages. Text without a form
// feed is a single page. A trailing form feed terminates the last page
// rather than opening a new one.
func Pages(text string) []domain.Page {
	text = Clean(text)

	parts := strings.Split(text, PageBreak)
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{Number: i + 1, StructuredText: part}
	}
	return pages
}

// Clean strips a UTF-8 byte order mark and normalises line endings to \n.
func Clean(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

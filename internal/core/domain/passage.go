package domain

import "fmt"

// MaxHeadingLevel is the deepest heading level passages are split on.
const MaxHeadingLevel = 3

// HeadingPath holds the heading labels in effect for a passage.
// Index 0 is the level-1 heading. Empty strings mean the level is absent.
type HeadingPath [MaxHeadingLevel]string

// Labels returns the non-empty heading labels from outermost to innermost.
func (h HeadingPath) Labels() []string {
	labels := make([]string, 0, MaxHeadingLevel)
	for _, l := range h {
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// Level returns the heading label at the given 1-based level.
func (h HeadingPath) Level(level int) string {
	if level < 1 || level > MaxHeadingLevel {
		return ""
	}
	return h[level-1]
}

// IsEmpty returns true if no heading is in effect.
func (h HeadingPath) IsEmpty() bool {
	return h == HeadingPath{}
}

// PassageMetadata is the positional and structural metadata of a passage.
type PassageMetadata struct {
	// DocumentName is the owning document's name.
	DocumentName string `json:"document_name"`

	// PageNumber is the 1-based page the passage was taken from.
	PageNumber int `json:"page_number"`

	// Ordinal is the position of the passage within its page.
	Ordinal int `json:"ordinal"`

	// Headings is the heading path in effect for the passage.
	Headings HeadingPath `json:"headings"`
}

// Passage is a contiguous span of page text under a heading path.
// It is the unit of indexing and retrieval.
type Passage struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Metadata PassageMetadata `json:"metadata"`
}

// PassageID derives the stable identifier of a passage from its owning
// document, page and ordinal position within the page.
func PassageID(documentName string, pageNumber, ordinal int) string {
	return fmt.Sprintf("%s_id_%d_%d", documentName, pageNumber, ordinal)
}

// Package heading provides a processor that splits page markdown at
// heading boundaries.
package heading

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PassageProcessor = (*Processor)(nil)

// runSeparator joins adjacent runs that share a heading path.
const runSeparator = "  \n"

// Processor splits a page into passages at heading levels 1 to maxLevel.
// Heading lines are removed from passage text; each passage carries the
// headings in effect where it starts.
type Processor struct {
	maxLevel int
}

// Option configures the heading processor.
type Option func(*Processor)

// WithMaxLevel sets the deepest heading level that starts a new passage.
// Deeper headings are kept as ordinary text.
func WithMaxLevel(level int) Option {
	return func(p *Processor) {
		if level >= 1 && level <= domain.MaxHeadingLevel {
			p.maxLevel = level
		}
	}
}

// New creates a new heading processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxLevel: domain.MaxHeadingLevel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "heading"
}

// Process splits the page text. Input passages are ignored; this processor
// creates passages from the page.
func (p *Processor) Process(_ context.Context, in driven.PageInput, _ []domain.Passage) ([]domain.Passage, error) {
	text := in.Page.StructuredText

	var sections []section
	if utf8.ValidString(text) {
		sections = p.split(text)
	} else if text != "" {
		// Not parseable as markup: keep the raw bytes as one passage.
		sections = []section{{text: text}}
	}
	if len(sections) == 0 {
		return nil, nil
	}

	passages := make([]domain.Passage, len(sections))
	for i, s := range sections {
		passages[i] = domain.Passage{
			ID:   domain.PassageID(in.DocumentName, in.Page.Number, i),
			Text: s.text,
			Metadata: domain.PassageMetadata{
				DocumentName: in.DocumentName,
				PageNumber:   in.Page.Number,
				Ordinal:      i,
				Headings:     s.headings,
			},
		}
	}
	return passages, nil
}

// section is a run of text lines under one heading path.
type section struct {
	text     string
	headings domain.HeadingPath
}

// split walks the page line by line. Blank lines and headings close the
// current run; consecutive runs under the same headings are then merged.
func (p *Processor) split(text string) []section {
	var (
		runs    []section
		current []string
		active  domain.HeadingPath
		runPath domain.HeadingPath
		fence   string
	)

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, section{text: strings.Join(current, "\n"), headings: runPath})
			current = current[:0]
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := printable(strings.TrimSpace(raw))

		if fence == "" {
			switch {
			case strings.HasPrefix(line, "```") && strings.Count(line, "```") == 1:
				fence = "```"
			case strings.HasPrefix(line, "~~~"):
				fence = "~~~"
			}
		} else if strings.HasPrefix(line, fence) {
			fence = ""
		}

		switch {
		case fence != "":
			current = append(current, line)
		case p.headingLevel(line) > 0:
			level := p.headingLevel(line)
			active[level-1] = strings.TrimSpace(line[level:])
			for i := level; i < len(active); i++ {
				active[i] = ""
			}
			flush()
		case line != "":
			current = append(current, line)
		default:
			flush()
		}

		runPath = active
	}
	flush()

	merged := make([]section, 0, len(runs))
	for _, r := range runs {
		if n := len(merged); n > 0 && merged[n-1].headings == r.headings {
			merged[n-1].text += runSeparator + r.text
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// headingLevel returns the level of a heading line, or 0 if the line is
// not a heading the processor splits on.
func (p *Processor) headingLevel(line string) int {
	hashes := 0
	for hashes < len(line) && line[hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > p.maxLevel {
		return 0
	}
	if hashes < len(line) && line[hashes] != ' ' {
		return 0
	}
	return hashes
}

// printable drops control and other non-printing runes.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

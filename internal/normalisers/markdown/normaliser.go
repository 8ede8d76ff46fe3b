// Package markdown normalises markdown so every heading uses the
// ATX (#) form the chunker splits on.
package markdown

import (
	"strings"

	"github.com/custodia-labs/wilson-cli/internal/normalisers/plaintext"
)

// Normalise strips YAML front matter and rewrites setext headings
// (a line underlined with === or ---) as ATX headings. Fenced code blocks
// are left untouched.
func Normalise(content string) string {
	content = stripFrontMatter(plaintext.Clean(content))

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	fence := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case !inFence:
				inFence, fence = true, marker
			case marker == fence:
				inFence = false
			}
			out = append(out, line)
			continue
		}

		if !inFence && i+1 < len(lines) && isSetextCandidate(trimmed) {
			if level := setextLevel(strings.TrimSpace(lines[i+1])); level > 0 {
				out = append(out, strings.Repeat("#", level)+" "+trimmed)
				i++
				continue
			}
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// stripFrontMatter removes a leading --- delimited YAML block.
func stripFrontMatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	end := strings.Index(content[4:], "\n---")
	if end < 0 {
		return content
	}
	rest := content[4+end+4:]
	// Drop the remainder of the closing delimiter line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && strings.TrimSpace(rest[:nl]) == "" {
		return rest[nl+1:]
	}
	if strings.TrimSpace(rest) == "" {
		return ""
	}
	return content
}

func fenceMarker(trimmed string) string {
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	default:
		return ""
	}
}

// isSetextCandidate reports whether a line can be the text of a setext
// heading: non-empty and not already a block construct.
func isSetextCandidate(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '#', '>', '-', '*', '+', '|', '=':
		return false
	}
	return true
}

// setextLevel returns 1 for a === underline, 2 for ---, 0 otherwise.
func setextLevel(underline string) int {
	if len(underline) < 2 {
		return 0
	}
	switch {
	case strings.Trim(underline, "=") == "":
		return 1
	case strings.Trim(underline, "-") == "":
		return 2
	default:
		return 0
	}
}

package html

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag      = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag       = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag    = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag        = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag         = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	deepHeading    = regexp.MustCompile(`(?m)^#{4,6}[ \t]+`)
	excessiveLines = regexp.MustCompile(`\n{3,}`)
)

// Normalise converts an HTML document to markdown.
func Normalise(content string) (string, error) {
	converter := md.NewConverter("", true, &md.Options{HeadingStyle: "atx"})
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(dropInvisible(content))
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return cleanMarkdown(markdown), nil
}

// dropInvisible removes elements whose content is never rendered.
func dropInvisible(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	return htmlComments.ReplaceAllString(content, "")
}

// cleanMarkdown demotes h4 to h6 to plain lines and trims whitespace.
func cleanMarkdown(content string) string {
	content = deepHeading.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	content = excessiveLines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

package quickstatements

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the QuickStatements tool.
const DefaultBaseURL = "https://quickstatements.toolforge.org"

// URL returns a link that opens the lines in the QuickStatements v1 editor.
func URL(lines []Line) string {
	return TextURL(DefaultBaseURL, Render(lines))
}

// TextURL embeds rendered statements into a QuickStatements link. Tabs become "|" and
// newlines become "||" before the text is percent-encoded.
func TextURL(baseURL, text string) string {
	text = strings.ReplaceAll(text, "\t", "|")
	text = strings.ReplaceAll(text, "\n", "||")
	return strings.TrimSuffix(baseURL, "/") + "/#/v1=" + escape(text)
}

// escape percent-encodes everything except unreserved characters, spaces included.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseURL extracts the statement text from a QuickStatements v1 link, turning
// "||" back into newlines.
func ParseURL(link string) (string, error) {
	i := strings.Index(link, "#/v1=")
	if i < 0 {
		return "", fmt.Errorf("not a QuickStatements v1 link: %q", link)
	}
	text, err := url.QueryUnescape(strings.TrimSpace(link[i+len("#/v1="):]))
	if err != nil {
		return "", fmt.Errorf("decoding QuickStatements link: %w", err)
	}
	return strings.ReplaceAll(text, "||", "\n"), nil
}

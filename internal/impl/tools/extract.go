package tools

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const maxPageText = 10000

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	adPattern         = regexp.MustCompile(`(?i)sponsored\s*content|advertisement|sponsored\s*by|promoted\s*content|\[ad\]|click\s*here\s*to\s*advertise`)
)

// ExtractText returns the readable body text of an HTML page: the text of
// paragraph, article and section elements, cleaned and capped in length.
func ExtractText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var blocks []string
	collectBlocks(doc, &blocks, 0)

	text := CleanContent(strings.Join(blocks, " "))
	if len(text) > maxPageText {
		text = strings.ToValidUTF8(text[:maxPageText], "")
	}
	return text
}

func collectBlocks(n *html.Node, blocks *[]string, depth int) {
	if depth > 200 {
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "header", "aside", "form":
			return
		case "p", "article", "section":
			var sb strings.Builder
			nodeText(n, &sb)
			if t := strings.TrimSpace(sb.String()); t != "" {
				*blocks = append(*blocks, t)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks, depth+1)
	}
}

func nodeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteString(" ")
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "svg":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(c, sb)
	}
}

// CleanContent collapses whitespace and strips common advertising phrases.
func CleanContent(content string) string {
	content = strings.TrimSpace(whitespacePattern.ReplaceAllString(content, " "))
	content = adPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(content, " "))
}

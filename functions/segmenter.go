package functions

import (
	"strings"

	"sitebot/models"

	"golang.org/x/net/html"
)

// ExtractSections turns a parsed page into heading-scoped sections. For
// every heading element (h1..h6) in document order, the content is the
// text of paragraph and list siblings that follow it up to the next
// heading of any level. Headings with empty text are never emitted;
// headings that collected no content are emitted only when keepEmpty is
// set.
func ExtractSections(doc *html.Node, keepEmpty bool) []models.Section {
	var sections []models.Section

	for _, heading := range collectHeadings(doc) {
		headingText := textContent(heading)
		if headingText == "" {
			continue
		}

		section := models.Section{Heading: headingText, Content: []string{}}

		for sibling := heading.NextSibling; sibling != nil; sibling = sibling.NextSibling {
			if isHeadingNode(sibling) {
				break
			}
			if !isContentNode(sibling) {
				continue
			}
			if text := textContent(sibling); text != "" {
				section.Content = append(section.Content, text)
			}
		}

		if len(section.Content) == 0 && !keepEmpty {
			continue
		}
		sections = append(sections, section)
	}

	return sections
}

func collectHeadings(doc *html.Node) []*html.Node {
	var headings []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isHeadingNode(n) {
			headings = append(headings, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return headings
}

func isHeadingNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// isContentNode reports whether a section scope sibling contributes text.
// Only paragraphs and lists count; everything else is skipped over.
func isContentNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "ul", "ol":
		return true
	}
	return false
}

func getAttributeValue(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var text strings.Builder
	extractTextOnly(n, &text)
	return strings.TrimSpace(text.String())
}

func extractTextOnly(n *html.Node, builder *strings.Builder) {
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		extractTextOnly(child, builder)
	}
}

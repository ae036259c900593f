package functions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"
)

func parsePage(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestExtractSectionsPairsHeadingsWithContent(t *testing.T) {
	doc := parsePage(t, `
		<html><body>
			<h2>Admissions</h2>
			<p>Apply online before June.</p>
			<h2>Departments</h2>
			<p>Twelve departments offer degrees.</p>
		</body></html>`)

	sections := ExtractSections(doc, false)

	require.Len(t, sections, 2)
	require.Equal(t, "Admissions", sections[0].Heading)
	require.Equal(t, []string{"Apply online before June."}, sections[0].Content)
	require.Equal(t, "Departments", sections[1].Heading)
	require.Equal(t, []string{"Twelve departments offer degrees."}, sections[1].Content)
}

func TestExtractSectionsBoundaryStopsAtNextHeading(t *testing.T) {
	doc := parsePage(t, `
		<html><body>
			<h1>First</h1>
			<p>belongs to first</p>
			<h3>Second</h3>
			<p>belongs to second</p>
			<ul><li>also second</li></ul>
		</body></html>`)

	sections := ExtractSections(doc, false)

	require.Len(t, sections, 2)
	for _, content := range sections[0].Content {
		require.NotContains(t, content, "second")
	}
	require.Equal(t, []string{"belongs to second", "also second"}, sections[1].Content)
}

func TestExtractSectionsIgnoresNonContentSiblings(t *testing.T) {
	doc := parsePage(t, `
		<html><body>
			<h2>Notices</h2>
			<div>not collected</div>
			<table><tr><td>not collected either</td></tr></table>
			<p>collected</p>
			<ol><li>collected too</li></ol>
		</body></html>`)

	sections := ExtractSections(doc, false)

	require.Len(t, sections, 1)
	require.Equal(t, []string{"collected", "collected too"}, sections[0].Content)
}

func TestExtractSectionsSkipsEmptyHeadings(t *testing.T) {
	doc := parsePage(t, `
		<html><body>
			<h2>   </h2>
			<p>orphaned text</p>
			<h2>Real</h2>
			<p>real text</p>
		</body></html>`)

	sections := ExtractSections(doc, true)

	require.Len(t, sections, 1)
	require.Equal(t, "Real", sections[0].Heading)
}

func TestExtractSectionsEmptyContentPolicy(t *testing.T) {
	page := `
		<html><body>
			<h2>Links Only</h2>
			<a href="/somewhere">nav link</a>
			<h2>With Text</h2>
			<p>some text</p>
		</body></html>`

	strict := ExtractSections(parsePage(t, page), false)
	require.Len(t, strict, 1)
	require.Equal(t, "With Text", strict[0].Heading)

	lenient := ExtractSections(parsePage(t, page), true)
	require.Len(t, lenient, 2)
	require.Equal(t, "Links Only", lenient[0].Heading)
	require.Empty(t, lenient[0].Content)
}

func TestExtractSectionsNoHeadings(t *testing.T) {
	doc := parsePage(t, `<html><body><p>just a paragraph</p></body></html>`)
	require.Empty(t, ExtractSections(doc, true))
}

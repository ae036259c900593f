package functions

import (
	"fmt"
	"testing"
	"time"

	"sitebot/models"

	"github.com/stretchr/testify/require"
)

func TestScrapePageExtractsSections(t *testing.T) {
	target := newCrawlTarget(t, map[string]string{
		"/page": `<html><body>
			<h2>Hostels</h2>
			<p>There are twelve hostels.</p>
			<h2>Library</h2>
			<p>The library is open daily.</p>
		</body></html>`,
	})

	session := NewCrawlSession(target.config(0))
	err := session.ScrapePage(target.server.URL + "/page")
	require.NoError(t, err)

	corpus := session.Corpus()
	require.Len(t, corpus, 1)
	require.Equal(t, target.server.URL+"/page", corpus[0].URL)
	require.Len(t, corpus[0].Sections, 2)
	require.Equal(t, "Hostels", corpus[0].Sections[0].Heading)
	require.Equal(t, "Library", corpus[0].Sections[1].Heading)
}

func TestScrapePageVisitedSetIsAuthoritative(t *testing.T) {
	target := newCrawlTarget(t, map[string]string{
		"/page": `<html><body><h2>Once</h2><p>only</p></body></html>`,
	})

	session := NewCrawlSession(target.config(0))
	require.NoError(t, session.ScrapePage(target.server.URL+"/page"))
	require.NoError(t, session.ScrapePage(target.server.URL+"/page"))

	require.Equal(t, 1, target.fetchCount("/page"))
	require.Len(t, session.Corpus(), 1)
}

func TestScrapePageFailureEmitsNoRecordAndNoRetry(t *testing.T) {
	target := newCrawlTarget(t, map[string]string{})

	session := NewCrawlSession(target.config(0))
	err := session.ScrapePage(target.server.URL + "/gone")
	require.Error(t, err)
	require.Empty(t, session.Corpus())

	// marked visited before the load: a second attempt is a no-op
	require.NoError(t, session.ScrapePage(target.server.URL+"/gone"))
	require.Equal(t, 1, target.fetchCount("/gone"))
}

func TestScrapePageSkipsForeignOrigin(t *testing.T) {
	target := newCrawlTarget(t, map[string]string{})

	session := NewCrawlSession(target.config(0))
	require.NoError(t, session.ScrapePage("https://other.example/page"))
	require.Empty(t, session.Corpus())
}

func TestScrapeAllDrainsFrontier(t *testing.T) {
	pages := make(map[string]string)
	for i := range 5 {
		pages[fmt.Sprintf("/p%d", i)] = fmt.Sprintf(
			`<html><body><h2>Page %d</h2><p>content %d</p></body></html>`, i, i)
	}
	target := newCrawlTarget(t, pages)

	cfg := target.config(0)
	cfg.PolitenessDelay = time.Millisecond
	session := NewCrawlSession(cfg)

	for i := range 5 {
		session.qualifyLink(fmt.Sprintf("%s/p%d", target.server.URL, i), "")
	}

	corpus := session.ScrapeAll(3)
	require.Len(t, corpus, 5)

	seen := make(map[string]bool)
	for _, record := range corpus {
		require.False(t, seen[record.URL], "page %s scraped twice", record.URL)
		seen[record.URL] = true
		require.Len(t, record.Sections, 1)
	}
}

func TestSectionText(t *testing.T) {
	section := models.Section{
		Heading: "Admissions",
		Content: []string{"line one", "line two"},
	}
	require.Equal(t, "Admissions\nline one\nline two", section.Text())
}

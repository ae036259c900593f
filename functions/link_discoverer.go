package functions

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"sitebot/models"
	"sitebot/utils"

	"golang.org/x/net/html"
)

// DiscoverLinks traverses the site from the seed URLs down to the
// configured depth and returns the deduplicated, origin-filtered frontier
// for the scraper. A fetch failure abandons that branch only.
func (s *CrawlSession) DiscoverLinks(seeds ...string) []models.Link {
	for _, seed := range seeds {
		s.discover(seed, 0)
	}
	return s.Frontier()
}

func (s *CrawlSession) discover(pageURL string, depth int) {
	select {
	case <-s.ctx.Done():
		return
	default:
	}

	if depth > s.cfg.MaxDepth {
		return
	}

	if !s.allowedLink(pageURL) {
		log.Printf("Skipping disallowed URL: %s", pageURL)
		return
	}

	s.mu.Lock()
	if _, fetched := s.seen[pageURL]; fetched {
		s.mu.Unlock()
		return
	}
	s.seen[pageURL] = struct{}{}
	s.mu.Unlock()

	log.Printf("Discovering (depth %d): %s", depth, pageURL)
	appendLog(fmt.Sprintf("Discovering (depth %d): %s", depth, pageURL))

	doc, err := s.fetchDocument(pageURL)
	if err != nil {
		log.Printf("Failed to fetch %s: %v", pageURL, err)
		appendLog(fmt.Sprintf("Failed to fetch %s: %v", pageURL, err))
		return
	}

	pageLinks := s.collectPageLinks(doc)

	if depth < s.cfg.MaxDepth {
		for _, link := range pageLinks {
			s.discover(link.URL, depth+1)
		}
	}
}

// collectPageLinks pulls qualifying anchor hrefs out of a parsed page and
// appends first occurrences to the frontier.
func (s *CrawlSession) collectPageLinks(doc *html.Node) []models.Link {
	var found []models.Link

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := getAttributeValue(n, "href")
			if href != "" {
				if link, ok := s.qualifyLink(href, textContent(n)); ok {
					found = append(found, link)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return found
}

// qualifyLink filters one href and claims its frontier slot. Relative and
// fragment-only hrefs fail the origin-prefix check and are dropped.
func (s *CrawlSession) qualifyLink(href, text string) (models.Link, bool) {
	if !s.allowedLink(href) {
		return models.Link{}, false
	}

	clean, err := utils.CanonicalizeURL(href)
	if err != nil {
		log.Printf("Failed to canonicalize URL %s: %v", href, err)
		return models.Link{}, false
	}
	if !s.allowedLink(clean) {
		return models.Link{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queued[clean] {
		return models.Link{}, false
	}
	if _, visited := s.visited[clean]; visited {
		return models.Link{}, false
	}

	link := models.Link{Text: text, URL: clean}
	s.frontier = utils.Enqueue(s.frontier, link)
	s.queued[clean] = true
	return link, true
}

// allowedLink is the origin allowlist predicate shared by discovery and
// scraping.
func (s *CrawlSession) allowedLink(rawURL string) bool {
	if !strings.HasPrefix(rawURL, s.cfg.RootPrefix) {
		return false
	}
	if s.cfg.ExcludePath != "" && strings.Contains(rawURL, s.cfg.ExcludePath) {
		return false
	}
	if len(rawURL) > s.cfg.MaxURLLength {
		return false
	}
	return !shouldSkipURL(rawURL)
}

// shouldSkipURL drops binary and download-style URLs the segmenter can
// never produce sections from.
func shouldSkipURL(url string) bool {
	binaryExtensions := []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg",
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".zip", ".rar", ".tar", ".gz", ".7z",
		".mp3", ".mp4", ".wav", ".avi", ".mov", ".wmv",
		".css", ".js", ".ico", ".xml", ".json",
	}

	lowerURL := strings.ToLower(url)
	for _, ext := range binaryExtensions {
		if strings.HasSuffix(lowerURL, ext) {
			return true
		}
	}

	if strings.Contains(lowerURL, "download=") ||
		strings.Contains(lowerURL, "attachment=") ||
		strings.Contains(lowerURL, "export=") {
		return true
	}

	return false
}

// fetchDocument does one robots-checked, bounded page load and parses the
// body. The response body is always released before returning.
func (s *CrawlSession) fetchDocument(pageURL string) (*html.Node, error) {
	if err := s.checkRobotsRules(pageURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.PageTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	request.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status code: %d", resp.StatusCode)
	}

	if !isHTMLContent(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("non-HTML content type: %s", resp.Header.Get("Content-Type"))
	}

	limitedReader := io.LimitReader(resp.Body, 10*1024*1024)
	doc, err := html.Parse(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

func isHTMLContent(contentType string) bool {
	if contentType == "" {
		return true
	}

	lowerType := strings.ToLower(contentType)
	htmlTypes := []string{
		"text/html",
		"application/xhtml+xml",
		"text/plain",
	}

	for _, htmlType := range htmlTypes {
		if strings.Contains(lowerType, htmlType) {
			return true
		}
	}

	return false
}

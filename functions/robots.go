package functions

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// checkRobotsRules gates a fetch on the target host's robots.txt. Parsed
// rules are cached per host for the lifetime of the session.
func (s *CrawlSession) checkRobotsRules(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	origin := parsed.Scheme + "://" + parsed.Host
	targetPath := parsed.Path

	s.robotsMu.RLock()
	robotsData, exists := s.robotsCache[origin]
	s.robotsMu.RUnlock()

	if exists {
		if !robotsData.FindGroup(userAgent).Test(targetPath) {
			return fmt.Errorf("blocked by robots.txt: %s", targetPath)
		}
		return nil
	}

	resp, err := s.httpClient.Get(origin + "/robots.txt")
	if err != nil {
		return fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	robotsData, err = robotstxt.FromResponse(resp)
	if err != nil {
		return fmt.Errorf("failed to parse robots.txt: %w", err)
	}

	s.robotsMu.Lock()
	s.robotsCache[origin] = robotsData
	s.robotsMu.Unlock()

	if !robotsData.FindGroup(userAgent).Test(targetPath) {
		return fmt.Errorf("not allowed to fetch %s (blocked by robots.txt)", targetPath)
	}

	return nil
}

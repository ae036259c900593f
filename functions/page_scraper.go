package functions

import (
	"fmt"
	"log"
	"sync"
	"time"

	"sitebot/models"
	"sitebot/utils"
)

// ScrapeAll drains the frontier with a bounded worker pool and returns the
// accumulated corpus. Each worker fully finishes one page before taking
// the next; the pool size is the only parallelism knob.
func (s *CrawlSession) ScrapeAll(workerCount int) []models.PageRecord {
	if workerCount <= 0 {
		workerCount = 1
	}

	s.mu.Lock()
	queueSize := len(s.frontier)
	s.mu.Unlock()

	if queueSize == 0 {
		log.Println("Frontier is empty, nothing to scrape")
		appendLog("Frontier is empty, nothing to scrape")
		return s.Corpus()
	}

	log.Printf("Starting scrape, %d URLs in frontier", queueSize)
	appendLog(fmt.Sprintf("Starting scrape, %d URLs in frontier", queueSize))

	go s.monitorShutdown()

	var wg sync.WaitGroup
	for i := range workerCount {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer log.Printf("Worker %d done", id)

			for {
				select {
				case <-s.ctx.Done():
					log.Printf("Worker %d got stop signal", id)
					return
				default:
				}

				link, ok := s.safeDequeue()
				if !ok {
					return
				}

				if err := s.ScrapePage(link.URL); err != nil {
					log.Printf("Worker %d: error with %s: %v", id, link.URL, err)
				}

				if s.cfg.PolitenessDelay > 0 {
					select {
					case <-s.ctx.Done():
						return
					case <-time.After(s.cfg.PolitenessDelay):
					}
				}
			}
		}(i)
	}

	wg.Wait()

	corpus := s.Corpus()
	log.Printf("All workers done, pages scraped: %d", len(corpus))
	appendLog(fmt.Sprintf("All workers done, pages scraped: %d", len(corpus)))
	return corpus
}

// ScrapePage loads one page and extracts its sections into the corpus.
// The URL is claimed in the visited set before the load starts, so a
// failed render is never retried within the run and no partial record is
// emitted for it.
func (s *CrawlSession) ScrapePage(pageURL string) error {
	s.mu.Lock()
	if _, visited := s.visited[pageURL]; visited {
		s.mu.Unlock()
		log.Printf("%s already visited, skipping", pageURL)
		return nil
	}
	s.visited[pageURL] = struct{}{}
	s.mu.Unlock()

	if !s.allowedLink(pageURL) {
		log.Printf("Skipping disallowed URL: %s", pageURL)
		return nil
	}

	log.Printf("Scraping: %s", pageURL)
	appendLog(fmt.Sprintf("Scraping: %s", pageURL))

	doc, err := s.fetchDocument(pageURL)
	if err != nil {
		appendLog(fmt.Sprintf("Failed to scrape %s: %v", pageURL, err))
		return fmt.Errorf("failed to scrape %s: %w", pageURL, err)
	}

	sections := ExtractSections(doc, s.cfg.KeepEmptySections)

	record := models.PageRecord{URL: pageURL, Sections: sections}

	s.mu.Lock()
	s.corpus = append(s.corpus, record)
	s.mu.Unlock()

	log.Printf("Scraped %s: %d sections", pageURL, len(sections))
	return nil
}

func (s *CrawlSession) safeDequeue() (models.Link, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, rest, err := utils.Dequeue(s.frontier)
	if err != nil {
		return models.Link{}, false
	}

	s.frontier = rest
	delete(s.queued, link.URL)
	return link, true
}

package functions

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitebot/models"

	"github.com/temoto/robotstxt"
)

// NewCrawlSession sets up the state for one crawl run
func NewCrawlSession(cfg CrawlConfig) *CrawlSession {
	// base context used to control shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// listen for system stop signals
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	if cfg.MaxURLLength <= 0 {
		cfg.MaxURLLength = defaultMaxURLLength
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = defaultPageTimeout
	}

	// shared http client for all requests in this run
	httpClient := &http.Client{
		Timeout:   cfg.PageTimeout,
		Transport: ProxyTransport(cfg.ProxyAddrs),
	}

	session := &CrawlSession{
		cfg:          cfg,
		seen:         make(map[string]struct{}),
		queued:       make(map[string]bool),
		visited:      make(map[string]struct{}),
		frontier:     make([]models.Link, 0),
		corpus:       make([]models.PageRecord, 0),
		robotsCache:  make(map[string]*robotstxt.RobotsData),
		ctx:          ctx,
		cancel:       cancel,
		shutdownChan: shutdownChan,
		httpClient:   httpClient,
	}

	return session
}

// Corpus returns the page records accumulated so far.
func (s *CrawlSession) Corpus() []models.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PageRecord, len(s.corpus))
	copy(out, s.corpus)
	return out
}

// Frontier returns the discovered link list.
func (s *CrawlSession) Frontier() []models.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Link, len(s.frontier))
	copy(out, s.frontier)
	return out
}

func (s *CrawlSession) monitorShutdown() {
	// wait until shutdown signal arrive
	<-s.shutdownChan

	log.Println("shutdown signal received, stopping crawl...")
	s.cancel()

	// force exit if something still hanging
	go func() {
		time.Sleep(10 * time.Second)
		log.Println("shutdown timeout reached, force exiting now")
		os.Exit(1)
	}()
}

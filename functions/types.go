package functions

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"sitebot/models"

	"github.com/temoto/robotstxt"
)

// CrawlConfig is the per-run crawl policy.
type CrawlConfig struct {
	// RootPrefix is the origin allowlist: only URLs starting with it are
	// discovered or scraped, e.g. "https://nitkkr.ac.in/".
	RootPrefix string
	// ExcludePath drops locale sub-trees, e.g. "/hi".
	ExcludePath string
	// MaxURLLength filters out tracking/query-heavy URLs.
	MaxURLLength int
	// MaxDepth bounds the link discovery traversal. 0 means collect only
	// the direct outbound links of the seeds.
	MaxDepth int
	// KeepEmptySections, when true, emits a section for every non-empty
	// heading even if no paragraph or list text was found under it.
	KeepEmptySections bool
	// PageTimeout bounds a single page load.
	PageTimeout time.Duration
	// PolitenessDelay is the pause between pages taken by each worker.
	PolitenessDelay time.Duration
	// ProxyAddrs optionally routes fetches through SOCKS5 proxies.
	ProxyAddrs []string
}

// CrawlSession owns the state of exactly one crawl run: the visited set,
// the link frontier and the in-memory corpus. It is never shared across
// runs.
type CrawlSession struct {
	cfg CrawlConfig

	mu       sync.Mutex
	seen     map[string]struct{} // pages fetched by the discoverer
	queued   map[string]bool     // frontier membership
	visited  map[string]struct{} // pages claimed by the scraper
	frontier []models.Link
	corpus   []models.PageRecord

	robotsMu    sync.RWMutex
	robotsCache map[string]*robotstxt.RobotsData

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownChan chan os.Signal
	httpClient   *http.Client
}

const (
	userAgent           = "SitebotCrawler/1.0"
	defaultMaxURLLength = 100
	defaultPageTimeout  = 30 * time.Second
)

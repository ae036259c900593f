package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"sitebot/db"
	"sitebot/functions"
	"sitebot/utils"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("===============		starting sitebot crawler		===============")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env: %v", err)
	}

	rootPrefix := os.Getenv("CRAWL_ROOT_PREFIX")
	if rootPrefix == "" {
		rootPrefix = "https://nitkkr.ac.in/"
	}

	maxDepth := 0
	if depth := os.Getenv("CRAWL_MAX_DEPTH"); depth != "" {
		parsed, err := strconv.Atoi(depth)
		if err != nil || parsed < 0 {
			log.Fatalf("Invalid CRAWL_MAX_DEPTH: %s", depth)
		}
		maxDepth = parsed
	}

	seeds := os.Args[1:]
	if len(seeds) == 0 {
		fmt.Println("No seed URLs provided. Usage: crawl <url1> <url2> ...")
		return
	}

	archive, err := db.OpenArchive(os.Getenv("ARCHIVE_PATH"))
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer archive.GracefulShutdown(5 * time.Second)

	session := functions.NewCrawlSession(functions.CrawlConfig{
		RootPrefix:        rootPrefix,
		ExcludePath:       os.Getenv("CRAWL_EXCLUDE_PATH"),
		MaxDepth:          maxDepth,
		KeepEmptySections: os.Getenv("CRAWL_KEEP_EMPTY_SECTIONS") != "",
		PolitenessDelay:   2 * time.Second,
		ProxyAddrs:        splitList(os.Getenv("CRAWL_PROXIES")),
	})

	ctx := context.Background()
	runID, err := archive.StartRun(ctx, strings.Join(seeds, " "), maxDepth)
	if err != nil {
		log.Fatalf("Failed to record crawl run: %v", err)
	}

	fmt.Printf("Discovering links from %d seeds (depth %d)...\n", len(seeds), maxDepth)
	links := session.DiscoverLinks(seeds...)
	fmt.Printf("Discovered %d links\n", len(links))

	corpus := session.ScrapeAll(5)

	for _, record := range corpus {
		if err := archive.RecordPage(ctx, runID, record); err != nil {
			log.Printf("Failed to archive %s: %v", record.URL, err)
		}
	}
	if err := archive.FinishRun(ctx, runID, len(corpus)); err != nil {
		log.Printf("Failed to finish crawl run: %v", err)
	}

	corpusPath := os.Getenv("CORPUS_PATH")
	if corpusPath == "" {
		corpusPath = "scraped_data.json"
	}
	if err := utils.SavePageRecords(corpusPath, corpus); err != nil {
		log.Fatalf("Failed to save corpus snapshot: %v", err)
	}

	fmt.Printf("Crawl completed! %d pages saved to %s\n", len(corpus), corpusPath)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

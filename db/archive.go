package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"sitebot/models"

	_ "github.com/mattn/go-sqlite3"
)

// Archive keeps a relational record of crawl runs and the pages each run
// produced. The JSON corpus snapshot stays the source of truth for
// reindexing; the archive exists for inspection across runs.
type Archive struct {
	db *sql.DB
}

func OpenArchive(dbPath string) (*Archive, error) {
	if dbPath == "" {
		dbPath = "./sitebot.db"
	}

	log.Printf("Opening archive DB at: %s", dbPath)
	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("can't open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)
	database.SetConnMaxLifetime(0)

	archive := &Archive{db: database}
	if err := archive.createTables(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("can't create tables: %w", err)
	}

	return archive, nil
}

func (a *Archive) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seeds TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		run_id INTEGER NOT NULL,
		sections INTEGER NOT NULL,
		words INTEGER NOT NULL,
		crawled_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES crawl_runs(id)
	);
	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);`

	_, err := a.db.ExecContext(ctx, schema)
	return err
}

// StartRun opens a crawl-run row and returns its id.
func (a *Archive) StartRun(ctx context.Context, seeds string, maxDepth int) (int64, error) {
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO crawl_runs (seeds, max_depth, started_at) VALUES (?, ?, ?)`,
		seeds, maxDepth, time.Now())
	if err != nil {
		return 0, fmt.Errorf("can't record crawl run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun closes a crawl-run row with its final page count.
func (a *Archive) FinishRun(ctx context.Context, runID int64, pages int) error {
	_, err := a.db.ExecContext(ctx,
		`UPDATE crawl_runs SET pages = ?, finished_at = ? WHERE id = ?`,
		pages, time.Now(), runID)
	if err != nil {
		return fmt.Errorf("can't finish crawl run: %w", err)
	}
	return nil
}

// RecordPage upserts one scraped page under the given run.
func (a *Archive) RecordPage(ctx context.Context, runID int64, record models.PageRecord) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO pages (url, run_id, sections, words, crawled_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			run_id = excluded.run_id,
			sections = excluded.sections,
			words = excluded.words,
			crawled_at = excluded.crawled_at`,
		record.URL, runID, len(record.Sections), record.WordCount(), time.Now())
	if err != nil {
		return fmt.Errorf("can't record page %s: %w", record.URL, err)
	}
	return nil
}

// HealthCheck pings the underlying database.
func (a *Archive) HealthCheck(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// GracefulShutdown closes the archive, waiting up to timeout for pending
// work before giving up.
func (a *Archive) GracefulShutdown(timeout time.Duration) {
	done := make(chan error, 1)
	go func() {
		done <- a.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Archive close failed: %v", err)
		} else {
			log.Println("Archive closed")
		}
	case <-time.After(timeout):
		log.Println("Archive close timed out")
	}
}

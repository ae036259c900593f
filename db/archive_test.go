package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sitebot/models"

	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.GracefulShutdown(time.Second) })
	return archive
}

func TestArchiveRunLifecycle(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	runID, err := archive.StartRun(ctx, "https://nitkkr.ac.in/", 1)
	require.NoError(t, err)
	require.Positive(t, runID)

	record := models.PageRecord{
		URL: "https://nitkkr.ac.in/about",
		Sections: []models.Section{
			{Heading: "History", Content: []string{"Established in 1963."}},
		},
	}
	require.NoError(t, archive.RecordPage(ctx, runID, record))
	require.NoError(t, archive.FinishRun(ctx, runID, 1))

	var pages, sections int
	err = archive.db.QueryRowContext(ctx,
		`SELECT r.pages, p.sections FROM crawl_runs r JOIN pages p ON p.run_id = r.id WHERE r.id = ?`,
		runID).Scan(&pages, &sections)
	require.NoError(t, err)
	require.Equal(t, 1, pages)
	require.Equal(t, 1, sections)
}

func TestArchiveRecordPageUpserts(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	first, err := archive.StartRun(ctx, "seed", 0)
	require.NoError(t, err)
	second, err := archive.StartRun(ctx, "seed", 0)
	require.NoError(t, err)

	record := models.PageRecord{URL: "https://nitkkr.ac.in/page"}
	require.NoError(t, archive.RecordPage(ctx, first, record))
	record.Sections = []models.Section{{Heading: "New", Content: []string{"updated"}}}
	require.NoError(t, archive.RecordPage(ctx, second, record))

	var count, runID, sections int
	err = archive.db.QueryRowContext(ctx,
		`SELECT COUNT(*), run_id, sections FROM pages WHERE url = ?`, record.URL).
		Scan(&count, &runID, &sections)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, int(second), runID)
	require.Equal(t, 1, sections)
}

func TestArchiveHealthCheck(t *testing.T) {
	archive := openTestArchive(t)
	require.NoError(t, archive.HealthCheck(context.Background()))
}

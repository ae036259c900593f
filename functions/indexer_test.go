package functions

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"sitebot/models"
	"sitebot/utils"

	"github.com/stretchr/testify/require"
)

func testCorpus() []models.PageRecord {
	return []models.PageRecord{
		{
			URL: "https://nitkkr.ac.in/about",
			Sections: []models.Section{
				{Heading: "History", Content: []string{"Established in 1963."}},
				{Heading: "Campus", Content: []string{"300 acre campus."}},
			},
		},
		{
			URL: "https://nitkkr.ac.in/academics",
			Sections: []models.Section{
				{Heading: "Programs", Content: []string{"B.Tech and M.Tech."}},
			},
		},
	}
}

func TestBuildEmbeddingRecords(t *testing.T) {
	records, err := BuildEmbeddingRecords(context.Background(), testCorpus(),
		func(ctx context.Context, text string) ([]float32, error) {
			return []float32{0.5}, nil
		})
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "https://nitkkr.ac.in/about", records[0].URL)
	require.Equal(t, "History", records[0].Section)
	require.Equal(t, "History\nEstablished in 1963.", records[0].Content)
	require.Equal(t, []float32{0.5}, records[0].Embedding)
}

func TestBuildEmbeddingRecordsSkipsFailedSections(t *testing.T) {
	records, err := BuildEmbeddingRecords(context.Background(), testCorpus(),
		func(ctx context.Context, text string) ([]float32, error) {
			if strings.HasPrefix(text, "Campus") {
				return nil, errors.New("service hiccup")
			}
			return []float32{1}, nil
		})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		require.NotEqual(t, "Campus", rec.Section)
	}
}

func TestBuildEmbeddingRecordsHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildEmbeddingRecords(ctx, testCorpus(),
		func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1}, nil
		})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRebuildIndexFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "scraped_data.json")
	embeddingsPath := filepath.Join(dir, "embeddings.json")

	require.NoError(t, utils.SavePageRecords(corpusPath, testCorpus()))

	records, err := RebuildIndexFromSnapshot(context.Background(), corpusPath, embeddingsPath,
		func(ctx context.Context, text string) ([]float32, error) {
			return []float32{0.1, 0.2}, nil
		})
	require.NoError(t, err)
	require.Len(t, records, 3)

	saved, err := utils.LoadEmbeddingRecords(embeddingsPath)
	require.NoError(t, err)
	require.Equal(t, records, saved)
}

func TestRebuildIndexFromSnapshotMissingCorpus(t *testing.T) {
	dir := t.TempDir()

	_, err := RebuildIndexFromSnapshot(context.Background(),
		filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json"),
		func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1}, nil
		})
	require.Error(t, err)
}

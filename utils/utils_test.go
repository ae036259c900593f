package utils

import (
	"path/filepath"
	"testing"

	"sitebot/models"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	var queue []models.Link
	queue = Enqueue(queue, models.Link{URL: "a"})
	queue = Enqueue(queue, models.Link{URL: "b"})

	first, queue, err := Dequeue(queue)
	require.NoError(t, err)
	require.Equal(t, "a", first.URL)

	second, queue, err := Dequeue(queue)
	require.NoError(t, err)
	require.Equal(t, "b", second.URL)

	_, _, err = Dequeue(queue)
	require.Error(t, err)
}

func TestCanonicalizeURL(t *testing.T) {
	canonical, err := CanonicalizeURL("https://nitkkr.ac.in/page?tab=2#section")
	require.NoError(t, err)
	require.Equal(t, "https://nitkkr.ac.in/page", canonical)

	same, err := CanonicalizeURL("https://nitkkr.ac.in/page")
	require.NoError(t, err)
	require.Equal(t, canonical, same)
}

func TestSectionPointID(t *testing.T) {
	id := SectionPointID("https://nitkkr.ac.in/about", "History")

	require.Equal(t, id, SectionPointID("https://nitkkr.ac.in/about", "History"))
	require.NotEqual(t, id, SectionPointID("https://nitkkr.ac.in/about", "Campus"))
	require.NotEqual(t, id, SectionPointID("https://nitkkr.ac.in/other", "History"))

	// must be parseable as a UUID string for the vector store
	require.Len(t, id, 36)
}

func TestPageRecordSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	records := []models.PageRecord{
		{URL: "https://nitkkr.ac.in/", Sections: []models.Section{
			{Heading: "Welcome", Content: []string{"hello"}},
		}},
	}

	require.NoError(t, SavePageRecords(path, records))

	loaded, err := LoadPageRecords(path)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestEmbeddingSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	records := []models.EmbeddingRecord{
		{URL: "https://nitkkr.ac.in/", Section: "Welcome", Content: "Welcome\nhello", Embedding: []float32{0.25, 0.75}},
	}

	require.NoError(t, SaveEmbeddingRecords(path, records))

	loaded, err := LoadEmbeddingRecords(path)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestLoadPageRecordsMissingFile(t *testing.T) {
	_, err := LoadPageRecords(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

package functions

import (
	"context"
	"fmt"
	"log"

	"sitebot/models"
	"sitebot/utils"
)

// EmbedFunc maps text to a fixed-length normalized vector.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// BuildEmbeddingRecords turns the scraped corpus into one embedding record
// per section. A record that fails to embed is logged and dropped; the
// batch keeps going.
func BuildEmbeddingRecords(ctx context.Context, pages []models.PageRecord, embed EmbedFunc) ([]models.EmbeddingRecord, error) {
	records := make([]models.EmbeddingRecord, 0)

	for _, page := range pages {
		for _, section := range page.Sections {
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			default:
			}

			text := section.Text()
			vector, err := embed(ctx, text)
			if err != nil {
				log.Printf("Skipping section %q of %s: %v", section.Heading, page.URL, err)
				appendLog(fmt.Sprintf("Skipping section %q of %s: %v", section.Heading, page.URL, err))
				continue
			}

			records = append(records, models.EmbeddingRecord{
				URL:       page.URL,
				Section:   section.Heading,
				Content:   text,
				Embedding: vector,
			})
		}
	}

	log.Printf("Built %d embedding records from %d pages", len(records), len(pages))
	return records, nil
}

// RebuildIndexFromSnapshot reads the corpus snapshot, embeds every section
// and writes the embeddings snapshot before handing the records to the
// caller for indexing.
func RebuildIndexFromSnapshot(ctx context.Context, corpusPath, embeddingsPath string, embed EmbedFunc) ([]models.EmbeddingRecord, error) {
	pages, err := utils.LoadPageRecords(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("can't load corpus snapshot: %w", err)
	}

	records, err := BuildEmbeddingRecords(ctx, pages, embed)
	if err != nil {
		return nil, err
	}

	if err := utils.SaveEmbeddingRecords(embeddingsPath, records); err != nil {
		return nil, fmt.Errorf("can't save embeddings snapshot: %w", err)
	}

	return records, nil
}

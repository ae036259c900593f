package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sitebot/models"
	"sitebot/utils"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewClient dials Qdrant and verifies the server is reachable.
func NewClient(host string, port int, apiKey string) (*qdrant.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   host,
		Port:                   port,
		APIKey:                 apiKey,
		UseTLS:                 false,
		SkipCompatibilityCheck: true,
		GrpcOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("can't create Qdrant client: %w", err)
	}

	if _, err := client.ListCollections(ctx); err != nil {
		return nil, fmt.Errorf("Qdrant unreachable at %s:%d: %w", host, port, err)
	}

	log.Printf("Qdrant ready at %s:%d", host, port)
	return client, nil
}

// IndexManager owns one named collection: its full-rebuild lifecycle,
// upserts and similarity queries. A rebuild takes the write lock so it is
// mutually exclusive with concurrent queries.
type IndexManager struct {
	client     *qdrant.Client
	collection string
	vectorSize uint64

	mu sync.RWMutex
}

func NewIndexManager(client *qdrant.Client, collection string, vectorSize uint64) *IndexManager {
	return &IndexManager{
		client:     client,
		collection: collection,
		vectorSize: vectorSize,
	}
}

// Collection returns the name of the managed collection.
func (m *IndexManager) Collection() string {
	return m.collection
}

// Rebuild deletes any existing collection of the configured name and
// creates a fresh one. A missing collection is not an error.
func (m *IndexManager) Rebuild(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.collectionExists(ctx)
	if err != nil {
		return fmt.Errorf("can't check collection: %w", err)
	}

	if exists {
		if err := m.client.DeleteCollection(ctx, m.collection); err != nil {
			return fmt.Errorf("can't delete collection %s: %w", m.collection, err)
		}
		log.Printf("Deleted existing collection %s", m.collection)
	} else {
		log.Printf("No existing collection %s to delete", m.collection)
	}

	err = m.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: m.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     m.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("can't create collection %s: %w", m.collection, err)
	}

	log.Printf("Collection %s created", m.collection)
	return nil
}

func (m *IndexManager) collectionExists(ctx context.Context) (bool, error) {
	info, err := m.client.GetCollectionInfo(ctx, m.collection)
	if err != nil || info == nil {
		return false, nil
	}
	return true, nil
}

// FilterValid splits records into the ones allowed into the index and a
// count of rejects (missing vector or metadata).
func FilterValid(records []models.EmbeddingRecord) ([]models.EmbeddingRecord, int) {
	valid := make([]models.EmbeddingRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			log.Printf("Skipping record for %s: %v", rec.URL, err)
			skipped++
			continue
		}
		valid = append(valid, rec)
	}
	return valid, skipped
}

// Store upserts every valid record, keyed by the deterministic
// URL+heading point ID, with the record's metadata as payload. Invalid
// records are skipped, not fatal.
func (m *IndexManager) Store(ctx context.Context, records []models.EmbeddingRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	valid, skipped := FilterValid(records)
	if skipped > 0 {
		log.Printf("Skipped %d invalid records", skipped)
	}

	for _, rec := range valid {
		point := &qdrant.PointStruct{
			Id:      qdrant.NewID(utils.SectionPointID(rec.URL, rec.Section)),
			Vectors: qdrant.NewVectors(rec.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"url":     rec.URL,
				"section": rec.Section,
				"content": rec.Content,
			}),
		}

		_, err := m.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: m.collection,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			return 0, fmt.Errorf("can't upsert record for %s: %w", rec.URL, err)
		}
	}

	log.Printf("Stored %d records in collection %s", len(valid), m.collection)
	return len(valid), nil
}

// Query returns the k nearest stored sections with their metadata.
func (m *IndexManager) Query(ctx context.Context, vector []float32, limit uint64) ([]models.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points, err := m.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: m.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("index query failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()
		results = append(results, models.SearchResult{
			URL:     payload["url"].GetStringValue(),
			Section: payload["section"].GetStringValue(),
			Content: payload["content"].GetStringValue(),
			Score:   point.GetScore(),
		})
	}
	return results, nil
}

// Ping reports whether the store is reachable.
func (m *IndexManager) Ping(ctx context.Context) error {
	if _, err := m.client.ListCollections(ctx); err != nil {
		return fmt.Errorf("Qdrant unreachable: %w", err)
	}
	return nil
}

package utils

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"

	"sitebot/models"

	"github.com/google/uuid"
)

func Enqueue(queue []models.Link, element models.Link) []models.Link {
	return append(queue, element)
}

func Dequeue(queue []models.Link) (models.Link, []models.Link, error) {
	if len(queue) == 0 {
		return models.Link{}, queue, errors.New("queue is empty")
	}
	element := queue[0]
	return element, queue[1:], nil
}

// CanonicalizeURL strips fragments and query strings so the same page
// is never queued twice under different spellings.
func CanonicalizeURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	parsed.Fragment = ""
	parsed.RawQuery = ""
	return parsed.String(), nil
}

// SectionPointID derives a stable point ID from a URL and the section
// heading. Keying on the URL alone would make later sections of a page
// overwrite earlier ones in the index.
func SectionPointID(pageURL, heading string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL+"#"+heading)).String()
}

// LoadPageRecords reads a corpus snapshot wholesale into memory.
func LoadPageRecords(path string) ([]models.PageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []models.PageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func SavePageRecords(path string, records []models.PageRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEmbeddingRecords reads an embeddings snapshot wholesale into memory.
func LoadEmbeddingRecords(path string) ([]models.EmbeddingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []models.EmbeddingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func SaveEmbeddingRecords(path string, records []models.EmbeddingRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

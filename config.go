package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the environment-driven process configuration. The vector
// store endpoint and access token are required; everything else has a
// working default.
type Config struct {
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	Collection   string
	VectorSize   uint64

	EmbeddingHost string
	LLMServerURL  string
	LLMAPIKey     string

	Port           string
	AutoInitialize bool

	CorpusPath     string
	EmbeddingsPath string

	SiteName string
	SiteURL  string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		QdrantHost:     os.Getenv("QDRANT_HOST"),
		QdrantPort:     6334,
		QdrantAPIKey:   os.Getenv("QDRANT_API_KEY"),
		Collection:     envOr("QDRANT_COLLECTION", "website_data"),
		VectorSize:     384,
		EmbeddingHost:  envOr("EMBEDDING_HOST", "http://localhost:5050"),
		LLMServerURL:   envOr("LLM_SERVER_URL", "http://localhost:1410"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		Port:           envOr("PORT", "3000"),
		AutoInitialize: os.Getenv("AUTO_INITIALIZE") != "",
		CorpusPath:     envOr("CORPUS_PATH", "scraped_data.json"),
		EmbeddingsPath: envOr("EMBEDDINGS_PATH", "embeddings.json"),
		SiteName:       envOr("SITE_NAME", "NIT Kurukshetra"),
		SiteURL:        envOr("SITE_URL", "https://nitkkr.ac.in/"),
	}

	if cfg.QdrantHost == "" {
		return nil, fmt.Errorf("QDRANT_HOST is missing from the environment")
	}
	if cfg.QdrantAPIKey == "" {
		return nil, fmt.Errorf("QDRANT_API_KEY is missing from the environment")
	}

	if port := os.Getenv("QDRANT_PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid QDRANT_PORT %q: %w", port, err)
		}
		cfg.QdrantPort = parsed
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

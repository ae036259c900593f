package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sync"
	"time"
)

const (
	embeddingTimeout = 30 * time.Second
	maxTextLength    = 50000
)

// request we send to the embedding service
type EmbedRequest struct {
	Text string `json:"text"`
}

// response we get back
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Dims      int32     `json:"dims"`
	ElapsedMS float32   `json:"elapsed_ms"`
}

// EmbeddingClient talks to the feature-extraction service that maps text
// to fixed-dimensionality vectors. The service loads its model once; the
// client warms it exactly once per process regardless of how many callers
// share the handle.
type EmbeddingClient struct {
	httpClient *http.Client
	baseURL    string
	warmOnce   sync.Once
}

func NewEmbeddingClient(baseURL string) *EmbeddingClient {
	return &EmbeddingClient{
		httpClient: &http.Client{Timeout: embeddingTimeout},
		baseURL:    baseURL,
	}
}

// Embed returns the unit-norm vector for the given text. Empty input is an
// error the caller treats as "skip this record".
func (ec *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty, can't embed")
	}

	ec.warmOnce.Do(func() {
		if err := ec.HealthCheck(ctx); err != nil {
			log.Printf("Embedding service warmup failed: %v", err)
		}
	})

	if len(text) > maxTextLength {
		log.Printf("text too long, cut from %d to %d chars", len(text), maxTextLength)
		text = text[:maxTextLength]
	}

	jsonData, err := json.Marshal(EmbedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("can't marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, ec.baseURL+"/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("can't create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := ec.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("can't call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("service returned %d: %s", resp.StatusCode, string(body))
	}

	var embedResp EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("can't decode response: %w", err)
	}

	vector, err := Normalize(embedResp.Embedding)
	if err != nil {
		return nil, err
	}

	log.Printf("Got embedding: %d dims, service: %.2fms, total: %dms",
		embedResp.Dims, embedResp.ElapsedMS, time.Since(start).Milliseconds())

	return vector, nil
}

// Normalize scales a vector to unit L2 norm so dot-product and cosine
// similarity agree downstream.
func Normalize(vector []float32) ([]float32, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("embedding is empty")
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("can't normalize zero vector")
	}

	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// HealthCheck makes sure the embedding service is up
func (ec *EmbeddingClient) HealthCheck(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, ec.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("can't create request: %w", err)
	}

	resp, err := ec.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("can't reach embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned %d", resp.StatusCode)
	}
	return nil
}

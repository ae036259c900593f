package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request/Response types for the OpenAI-compatible completion API

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// CompletionClient calls the external text-generation service that turns a
// grounded prompt into the final answer.
type CompletionClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewCompletionClient(baseURL, apiKey string) *CompletionClient {
	return &CompletionClient{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Complete sends one user prompt and returns the generated text unmodified.
func (cc *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	chatReq := ChatRequest{
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("can't marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("can't create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if cc.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+cc.apiKey)
	}

	resp, err := cc.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generation service returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("can't decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("generation service returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

package functions

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sitebot/models"
)

const answerTopK = 3

// VectorIndex is the read side of the index the responder retrieves from.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, limit uint64) ([]models.SearchResult, error)
}

// Generator is the external text-completion capability.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Responder answers questions from retrieved context only. Every failure
// on the way degrades to a user-safe string; errors never cross this
// boundary.
type Responder struct {
	embed     EmbedFunc
	index     VectorIndex
	generator Generator
	siteName  string
	siteURL   string
}

func NewResponder(embed EmbedFunc, index VectorIndex, generator Generator, siteName, siteURL string) *Responder {
	return &Responder{
		embed:     embed,
		index:     index,
		generator: generator,
		siteName:  siteName,
		siteURL:   siteURL,
	}
}

const promptTemplate = `You are an AI assistant providing accurate and relevant support on behalf of the %s website. Your goal is to assist users by utilizing the given context while maintaining clarity, conciseness, and helpfulness.

Guidelines for response generation:
1. If the context contains a direct answer, provide a precise and structured response.
2. If the context provides partial or related information, use the available details to give the most relevant response and clearly indicate any limitations in the data.
3. If no relevant context is found, suggest alternative ways the user might find the required information and point to official %s pages related to the topic. Never say "I don't have enough information"; guide the user towards a possible solution instead.

Maintain a professional and helpful tone. If any official resources are available, prioritize sharing those.

Context:
%s

Question: %s

Answer:`

// Answer runs the retrieve-then-generate flow for one question.
func (r *Responder) Answer(ctx context.Context, question string) string {
	vector, err := r.embed(ctx, question)
	if err != nil {
		log.Printf("Error embedding question: %v", err)
		return r.apology()
	}

	results, err := r.index.Query(ctx, vector, answerTopK)
	if err != nil {
		log.Printf("Error querying index: %v", err)
		return r.apology()
	}

	contextBlock := BuildContext(results)
	if contextBlock == "" {
		return r.fallback()
	}

	prompt := fmt.Sprintf(promptTemplate, r.siteName, r.siteName, contextBlock, question)

	answer, err := r.generator.Complete(ctx, prompt)
	if err != nil {
		log.Printf("Error generating response: %v", err)
		return r.apology()
	}

	return answer
}

// BuildContext joins retrieved sections into source-attributed blocks,
// keeping the store's descending-similarity order. Results missing a URL
// or content are dropped.
func BuildContext(results []models.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		if res.URL == "" || res.Content == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", res.URL, res.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// fallback is the deterministic no-context reply: point at canonical site
// links rather than asserting ignorance.
func (r *Responder) fallback() string {
	return fmt.Sprintf(
		"I couldn't find the exact details, but you might check the official %s pages:\n- %s",
		r.siteName, r.siteURL)
}

func (r *Responder) apology() string {
	return "Sorry, an error occurred while generating the response. Please try again later."
}

package models

import "errors"

// Link represents a hyperlink found on a page
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Section is a heading plus the paragraph/list text found between it
// and the next heading on the page.
type Section struct {
	Heading string   `json:"heading"`
	Content []string `json:"content"`
}

// Text returns the section in the form the embedding service receives:
// heading first, then the body, newline separated.
func (s Section) Text() string {
	out := s.Heading
	for _, c := range s.Content {
		out += "\n" + c
	}
	return out
}

// PageRecord holds all sections extracted from one scraped URL
type PageRecord struct {
	URL      string    `json:"url"`
	Sections []Section `json:"sections"`
}

// WordCount counts words across all section headings and bodies.
func (p PageRecord) WordCount() int {
	n := 0
	for _, s := range p.Sections {
		n += countWords(s.Heading)
		for _, c := range s.Content {
			n += countWords(c)
		}
	}
	return n
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}

// EmbeddingRecord is one indexable section: its owning URL, heading,
// the concatenated text that was embedded, and the vector itself.
type EmbeddingRecord struct {
	URL       string    `json:"url"`
	Section   string    `json:"section"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

var (
	ErrMissingURL       = errors.New("embedding record has no url")
	ErrMissingSection   = errors.New("embedding record has no section heading")
	ErrMissingEmbedding = errors.New("embedding record has no vector")
)

// Validate rejects records that must not reach the index.
func (r EmbeddingRecord) Validate() error {
	if r.URL == "" {
		return ErrMissingURL
	}
	if r.Section == "" {
		return ErrMissingSection
	}
	if len(r.Embedding) == 0 {
		return ErrMissingEmbedding
	}
	return nil
}

// SearchResult is one index hit with its stored metadata and similarity score.
type SearchResult struct {
	URL     string  `json:"url"`
	Section string  `json:"section"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

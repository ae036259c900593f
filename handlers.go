package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"sitebot/functions"
	"sitebot/models"
)

type indexStore interface {
	Rebuild(ctx context.Context) error
	Store(ctx context.Context, records []models.EmbeddingRecord) (int, error)
	Ping(ctx context.Context) error
}

type answerer interface {
	Answer(ctx context.Context, question string) string
}

// Server wires the HTTP endpoints to the pipeline components.
type Server struct {
	index     indexStore
	responder answerer
	embed     functions.EmbedFunc

	corpusPath     string
	embeddingsPath string
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Response string `json:"response"`
}

// initialize regenerates embeddings from the corpus snapshot and rebuilds
// the vector collection from scratch.
func (s *Server) initialize(ctx context.Context) error {
	records, err := functions.RebuildIndexFromSnapshot(ctx, s.corpusPath, s.embeddingsPath, s.embed)
	if err != nil {
		return err
	}

	if err := s.index.Rebuild(ctx); err != nil {
		return err
	}

	stored, err := s.index.Store(ctx, records)
	if err != nil {
		return err
	}

	log.Printf("Index initialized with %d records", stored)
	return nil
}

func (s *Server) initializeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.initialize(r.Context()); err != nil {
		log.Printf("Initialization failed: %v", err)
		http.Error(w, "Initialization failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Database initialized successfully!")
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Question == "" {
		http.Error(w, "Please provide a question", http.StatusBadRequest)
		return
	}

	response := s.responder.Answer(r.Context(), req.Question)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{Response: response})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "healthy"
	if err := s.index.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

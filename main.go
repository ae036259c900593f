package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitebot/db"
	"sitebot/functions"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("========================================")
	log.Println("Sitebot QA Server")
	log.Println("========================================")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	client, err := db.NewClient(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("Failed to connect to Qdrant: %v", err)
	}

	index := db.NewIndexManager(client, cfg.Collection, cfg.VectorSize)
	embedder := functions.NewEmbeddingClient(cfg.EmbeddingHost)
	generator := functions.NewCompletionClient(cfg.LLMServerURL, cfg.LLMAPIKey)
	responder := functions.NewResponder(embedder.Embed, index, generator, cfg.SiteName, cfg.SiteURL)

	server := &Server{
		index:          index,
		responder:      responder,
		embed:          embedder.Embed,
		corpusPath:     cfg.CorpusPath,
		embeddingsPath: cfg.EmbeddingsPath,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/initialize", corsMiddleware(server.initializeHandler))
	mux.HandleFunc("/query", corsMiddleware(server.queryHandler))
	mux.HandleFunc("/health", corsMiddleware(server.healthHandler))

	httpServer := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: mux,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if cfg.AutoInitialize {
		go func() {
			log.Println("Auto-initializing index...")
			if err := server.initialize(context.Background()); err != nil {
				log.Printf("Auto-initialization failed: %v", err)
			}
		}()
	}

	log.Printf("Server listening on %s", httpServer.Addr)
	log.Println("Endpoints:")
	log.Println("   POST /initialize")
	log.Println("   POST /query")
	log.Println("   GET  /health")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

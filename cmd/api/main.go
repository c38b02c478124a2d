package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workforceintel/internal/ai"
	"workforceintel/internal/config"
	"workforceintel/internal/dumpstore"
	"workforceintel/internal/hypothesis"
	transporthttp "workforceintel/internal/transport/http"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lexicon, err := ai.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Fatalf("load lexicon: %v", err)
	}
	heuristic := &ai.Heuristic{Lexicon: lexicon}

	var generator ai.TextGenerator = heuristic
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Printf("AI_PROVIDER=openai but OPENAI_API_KEY is empty, degrading to heuristic provider")
		} else {
			generator = ai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			log.Printf("OpenAI classification enabled with model %s", cfg.OpenAIModel)
		}
	case "heuristic":
		log.Printf("Using deterministic heuristic provider, responses are offline")
	default:
		log.Fatalf("unsupported AI_PROVIDER: %s", cfg.AIProvider)
	}

	engine := hypothesis.NewEngine(generator)
	engine.Orchestrator.Fallback = heuristic
	engine.Orchestrator.BatchSize = cfg.BatchSize
	engine.Orchestrator.MaxConcurrency = cfg.MaxConcurrency
	engine.Orchestrator.MaxRetries = cfg.MaxRetries
	engine.Orchestrator.Timeout = cfg.AITimeout

	store, err := dumpstore.Open(cfg.DumpDBPath)
	if err != nil {
		log.Fatalf("init dump store: %v", err)
	}

	server := transporthttp.NewServer(engine, store, cfg.RequestTimeout)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Workforce intelligence API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("signal received: %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

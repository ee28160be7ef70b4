package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jiyunpark/mulog/internal/api"
	"github.com/jiyunpark/mulog/internal/chat"
	"github.com/jiyunpark/mulog/internal/config"
	"github.com/jiyunpark/mulog/internal/db"
	"github.com/jiyunpark/mulog/internal/llm"
	"github.com/jiyunpark/mulog/internal/report"
	"github.com/jiyunpark/mulog/internal/retrieval"
	"github.com/jiyunpark/mulog/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting mulog-server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("WARNING: unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Build the generative client. Missing credentials are not fatal:
	// intake and memo endpoints must keep working without AI features.
	var reportGen *report.Generator
	generator, err := llm.New(cfg)
	if err != nil {
		log.Printf("WARNING: %v", err)
		log.Println("Server will start but report and chat endpoints are disabled")
	} else {
		log.Printf("Generative service: %s", generator.Name())
		reportGen, err = report.NewGenerator(database, generator, loc)
		if err != nil {
			log.Fatalf("Failed to build report generator: %v", err)
		}
	}

	// Chat needs both the knowledge base and the generative client
	var chatSvc *chat.Service
	if generator != nil && cfg.RetrievalConfigured() {
		retriever := retrieval.NewClient(cfg.DifyBaseURL, cfg.DifyAPIKey, cfg.DifyDatasetID)
		chatSvc, err = chat.NewService(retriever, generator)
		if err != nil {
			log.Fatalf("Failed to build chat service: %v", err)
		}
	} else if generator != nil {
		log.Println("WARNING: Dify credentials not set, chat endpoint is disabled")
	}

	// Create router
	router := api.NewRouter(cfg, database, reportGen, chatSvc, loc)

	// Create and start scheduler
	sched, err := scheduler.New(reportGen, cfg.Timezone)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Start server
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down gracefully...")

	// Give ongoing requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}

	log.Println("Closing database...")
	if err := database.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}

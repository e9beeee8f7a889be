package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/studyassist/backend/internal/adapter/llm"
	"github.com/studyassist/backend/internal/config"
	"github.com/studyassist/backend/internal/policy"
	"github.com/studyassist/backend/internal/service"
	"github.com/studyassist/backend/internal/store"
	handler "github.com/studyassist/backend/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting assistant backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Store driver: %s", cfg.StoreDriver)
	log.Printf("Model: %s", cfg.OpenAIModel)

	// Initialize session store
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer sessionStore.Close()

	// Initialize model client (real or mock, selected by credential)
	client := llm.NewClientFromConfig(cfg)

	// Initialize question policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy, cfg.MaxQuestionLen)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(sessionStore, client, policyEngine, cfg)

	// Initialize handler
	h := handler.NewHandler(svc)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Stopped")
}

// newSessionStore builds the session store for the configured driver.
func newSessionStore(cfg *config.Config) (store.SessionStore, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return store.NewSQLiteStore(cfg.StoreDSN)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

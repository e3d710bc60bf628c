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

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/octobees/crm-leads/internal/config"
	"github.com/octobees/crm-leads/internal/database"
	"github.com/octobees/crm-leads/internal/handler"
	middlewarepkg "github.com/octobees/crm-leads/internal/middleware"
	"github.com/octobees/crm-leads/internal/repository"
	"github.com/octobees/crm-leads/internal/router"
	"github.com/octobees/crm-leads/internal/service"
	"github.com/octobees/crm-leads/internal/service/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Scoring works only when a key is present; every other endpoint stays
	// available without one.
	var model llms.Model
	if cfg.AnthropicAPIKey != "" {
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.AnthropicModel),
		)
		if err != nil {
			log.Fatalf("failed to create anthropic client: %v", err)
		}
	} else {
		log.Printf("ANTHROPIC_API_KEY not set, lead scoring disabled")
	}

	leadsRepo := repository.NewPGXLeadsRepository(pool)
	engine := scoring.NewEngine(model, scoring.NewSummarizer(nil))
	leadsService := service.NewLeadsService(leadsRepo, engine)

	handlers := router.Handlers{
		Leads:  handler.NewLeadsHandler(leadsService),
		Upload: handler.NewUploadHandler(leadsService),
		Score:  handler.NewScoreHandler(leadsService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	router.Register(e, cfg, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

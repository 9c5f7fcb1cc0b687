package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/rag-answer-engine/internal/bootstrap"
	"github.com/kirillkom/rag-answer-engine/internal/config"
	"github.com/kirillkom/rag-answer-engine/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup("rag-answer-engine", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      app.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
	if err := app.Close(shutdownCtx); err != nil {
		log.Printf("graph close error: %v", err)
	}
}

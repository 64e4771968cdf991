// cmd/trigger/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/sellerpulse/internal/app"
	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/trigger"
	"github.com/andresuchdata/sellerpulse/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.UseJSON()
	logger.SetLevel(cfg.LogLevel)

	application := app.New(context.Background(), cfg, app.Options{})
	defer application.Close()

	// Create router
	r := mux.NewRouter()

	// Register routes
	handler := trigger.NewHandler(application.Digests, cfg.Server.TriggerToken)
	handler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.TriggerPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	logger.Log.Info().Str("addr", addr).Msg("Trigger server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatal().Err(err).Msg("Trigger server failed")
	}
}

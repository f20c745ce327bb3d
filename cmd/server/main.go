// Package main is the entry point for the letsgobiking server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/randytsao24/letsgobiking/internal/api"
	"github.com/randytsao24/letsgobiking/internal/bikeshare"
	"github.com/randytsao24/letsgobiking/internal/cache"
	"github.com/randytsao24/letsgobiking/internal/config"
	"github.com/randytsao24/letsgobiking/internal/itinerary"
	"github.com/randytsao24/letsgobiking/internal/location"
	"github.com/randytsao24/letsgobiking/internal/models"
	"github.com/randytsao24/letsgobiking/internal/routing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	geocoder := location.NewGeocoder(location.GeocoderConfig{
		BaseURL:        cfg.NominatimBaseURL,
		UserAgent:      cfg.UserAgent,
		CountryCodes:   cfg.NominatimCountryCodes,
		RequestsPerSec: cfg.GeocodeRatePerSecond,
		Timeout:        cfg.HTTPTimeout,
	})

	jcdecaux := bikeshare.NewJCDecauxClient(cfg.JCDecauxBaseURL, cfg.JCDecauxAPIKey, cfg.UserAgent, cfg.HTTPTimeout)
	stations := bikeshare.NewCachedSource(jcdecaux, cache.New[string, []models.Station](), bikeshare.SourceConfig{
		StationTTL:       cfg.StationCacheTTL,
		ContractTTL:      cfg.ContractCacheTTL,
		ResolveContracts: cfg.ResolveContracts,
	})

	routes := routing.NewClient(routing.Config{
		BaseURL:   cfg.ORSBaseURL,
		APIKey:    cfg.ORSAPIKey,
		Language:  cfg.ORSLanguage,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	})

	engine := itinerary.NewEngine(geocoder, stations, routes)

	var webFS fs.FS
	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			webFS = os.DirFS(cfg.StaticDir)
		} else {
			slog.Warn("Static directory not found, serving API only", "dir", cfg.StaticDir)
		}
	}

	router := api.NewRouter(cfg, engine, geocoder, webFS)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("🚲 letsgobiking server starting on port %s\n", cfg.Port)
	fmt.Printf("📍 Environment: %s\n", cfg.Env)
	fmt.Printf("⏱️  Station cache TTL: %s\n", cfg.StationCacheTTL)
	fmt.Printf("🔗 http://localhost:%s\n", cfg.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

// setupLogger installs a text handler in development and JSON elsewhere
func setupLogger(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

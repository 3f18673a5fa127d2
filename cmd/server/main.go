package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sucrecam/backend/config"
	httpDelivery "github.com/sucrecam/backend/internal/delivery/http"
	"github.com/sucrecam/backend/internal/domain"
	"github.com/sucrecam/backend/internal/infrastructure/cache"
	"github.com/sucrecam/backend/internal/infrastructure/local"
	"github.com/sucrecam/backend/internal/infrastructure/off"
	"github.com/sucrecam/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SucreCam Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	var resolutionCache domain.CacheRepository
	if cfg.Cache.Type == "sqlite" {
		sqliteCache, err := cache.NewSQLiteCache(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Failed to open cache database: %v", err)
		}
		defer sqliteCache.Close()
		resolutionCache = sqliteCache
		log.Printf("Cache database: %s", cfg.Cache.Path)
	} else {
		resolutionCache = cache.NewMemoryCache(cfg.Cache.TTL)
	}

	offClient := off.NewClient(cfg.OFF.BaseURL, cfg.OFF.UserAgent)
	log.Printf("Open Food Facts API: %s", cfg.OFF.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("OFF client debug mode enabled")
	}

	overrides := local.NewTable()

	// Initialize usecase layer
	resolver := usecase.NewResolverService(resolutionCache, offClient, overrides)
	layout := usecase.NewLayoutEngine(cfg.Layout.ViewportWidth, cfg.Layout.ViewportHeight)
	session := usecase.NewScanSession(resolver, layout)
	log.Printf("Scan session: %s", session.ID)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(session, resolver, layout)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

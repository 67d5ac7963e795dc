// Package main is the entry point for the presentation extraction server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/example/slideconv/internal/assets"
	"github.com/example/slideconv/internal/config"
	"github.com/example/slideconv/internal/handlers"
	"github.com/example/slideconv/internal/logging"
	"github.com/example/slideconv/internal/middleware"
	"github.com/example/slideconv/internal/orchestrator"
	"github.com/example/slideconv/internal/repository"
	"github.com/example/slideconv/internal/storage"
)

var (
	configFile = flag.String("config", "slideconv.json", "Configuration file path")
	testConfig = flag.Bool("test-config", false, "Test configuration and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = "1.0.0"
)

// isPortInUse checks if the given port is already in use.
func isPortInUse(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return true
	}
	listener.Close()
	return false
}

// findFreePort tries ports upward from startPort, giving up after 100
// attempts or port 65535.
func findFreePort(startPort int) int {
	port := startPort
	maxPortToTry := startPort + 100
	if maxPortToTry > 65535 {
		maxPortToTry = 65535
	}
	for port <= maxPortToTry {
		if !isPortInUse(port) {
			return port
		}
		port++
	}
	return startPort
}

func main() {
	flag.Parse()

	settings, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *testConfig {
		fmt.Println("Configuration test successful")
		return
	}

	level := settings.Log.Level
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Options{
		ServiceName: "slideconv",
		Level:       level,
		Format:      settings.Log.Format,
	})

	fmt.Printf("\n=================================\n")
	fmt.Printf("Presentation Extraction Server v%s\n", version)
	fmt.Printf("=================================\n\n")

	// Storage backend. Local always works; cloud backends degrade to
	// unavailable instead of aborting startup.
	factory := storage.NewFactory(log)
	var store *storage.Service
	provider, err := factory.CreateProvider(settings.Storage.Provider, settings.Storage.ProviderConfig())
	if err != nil {
		log.Warn().Str("provider", settings.Storage.Provider).Err(err).
			Msg("storage provider unavailable, uploads disabled")
	} else {
		store = storage.NewService(log, provider, settings.Storage.Provider)
	}

	// Metadata repository.
	var repo *repository.Repository
	if settings.Features.EnablePersistence {
		var db *gorm.DB
		if settings.Database.Driver == "postgres" {
			db, err = repository.OpenPostgres(settings.Database.DSN)
		} else {
			db, err = repository.OpenSQLite(settings.Database.DSN)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to open metadata database")
			os.Exit(1)
		}
		repo = repository.New(db, log)
	}

	orch := orchestrator.New(log, assets.DefaultRegistry, orchestrator.Config{
		EnableParallel:      settings.Extraction.EnableParallel,
		PerExtractorTimeout: time.Duration(settings.Extraction.PerExtractorSecs) * time.Second,
		OverallTimeout:      time.Duration(settings.Extraction.OverallSecs) * time.Second,
		PostWorkers:         settings.Extraction.PostWorkers,
		PostQueueSize:       settings.Extraction.PostQueueSize,
	})
	defer orch.Close()
	if store != nil {
		orch.WithUploader(store)
	}
	if repo != nil {
		orch.WithRepository(repo)
	}

	var hub *handlers.ProgressHub
	if settings.Features.EnableProgressUpdates {
		hub = handlers.NewProgressHub(log, splitOrigins(settings.Server.AllowedOrigins))
		go hub.Run()
		defer hub.Close()
		orch.WithNotifier(hub)
	}

	api := handlers.NewAPIHandler(log, orch)
	if repo != nil {
		api.WithRepository(repo)
	}
	if store != nil {
		api.WithStorage(store, factory)
	}
	if hub != nil {
		api.WithHub(hub)
	}

	router := mux.NewRouter()
	api.RegisterRoutes(router)

	handler := middleware.Chain(
		router,
		middleware.Logger(log),
		middleware.Recover(log),
		middleware.CORS(splitOrigins(settings.Server.AllowedOrigins)),
	)

	port := settings.Server.Port
	if isPortInUse(port) {
		newPort := findFreePort(port)
		if newPort != port {
			log.Warn().Int("port", port).Int("newPort", newPort).
				Msg("configured port in use, switching")
			port = newPort
		} else {
			log.Warn().Int("port", port).Msg("port in use and no alternative found, server may fail to start")
		}
	}

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, port)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	<-stop
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(settings.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server shutdown complete")
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

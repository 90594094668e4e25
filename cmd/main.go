package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dukaan/internal/api"
	"dukaan/internal/config"
	"dukaan/internal/engine"
	"dukaan/internal/interpret"
	"dukaan/internal/monitoring"
	"dukaan/internal/store"

	"github.com/tmc/langchaingo/llms/openai"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	// Seed the catalog one item at a time so the newest entry sits first,
	// matching the resolver's most-recently-added tie-break.
	state := engine.NewState()
	for _, item := range cfg.SeedInventory() {
		state = state.AddProduct(item)
	}

	shop := store.New(state)

	collector := monitoring.NewCollector()
	shop.AddObserver(collector)

	interpreter := initializeInterpreter(cfg)
	server := api.NewServer(shop, interpreter, cfg.AuthSecret)

	go startMetricsServer(cfg.Server.MetricsPort, collector)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// initializeInterpreter builds the LLM-backed interpreter, or returns nil
// when no API key is configured so the shop still runs without the assist
// endpoint.
func initializeInterpreter(cfg *config.Config) api.Interpreter {
	if cfg.LLM.APIKey == "" {
		log.Println("No LLM API key configured; assist endpoint disabled")
		return nil
	}

	llm, err := openai.New(
		openai.WithModel(cfg.LLM.Model),
		openai.WithToken(cfg.LLM.APIKey),
	)
	if err != nil {
		log.Printf("Failed to initialize language model: %v; assist endpoint disabled", err)
		return nil
	}
	return interpret.New(llm)
}

func startMetricsServer(port int, collector *monitoring.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

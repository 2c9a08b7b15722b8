package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"signal-extractor/internal/db"
	"signal-extractor/internal/interfaces"
	"signal-extractor/internal/llm"
	"signal-extractor/internal/llm/llmobs"
	"signal-extractor/internal/logger"
	"signal-extractor/internal/source"
	"signal-extractor/internal/store"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/validator"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration, falling back to
// defaults when no config file exists
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn(ctx, "Config file not found, using defaults", "path", path)
		return store.DefaultConfig(), nil
	}

	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// openStore opens the sqlite database configured in cfg
func openStore(ctx context.Context, cfg *store.Config) (*db.Store, error) {
	s, err := db.Open(cfg.Database.Path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open database", err, "path", cfg.Database.Path)
		return nil, err
	}
	logger.Info(ctx, "Database ready", "path", cfg.Database.Path)
	return s, nil
}

// initializeExtractor builds the LLM extractor with observability
func initializeExtractor(ctx context.Context, cfg *store.Config) (interfaces.Extractor, error) {
	extractor, err := llm.NewExtractor(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LLM.Provider == "NOOP" {
		logger.Warn(ctx, "No LLM provider configured - using Noop extractor (extracts nothing)")
	} else {
		logger.Info(ctx, "Extractor ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	// Wrap with observability middleware
	return llmobs.Wrap(extractor), nil
}

// initializeSource builds the configured source adapter
func initializeSource(cfg *store.Config) interfaces.SourceAdapter {
	return source.NewJSONAdapter(cfg.Source.FilePath)
}

// initializeValidator builds the action validator from the configured
// confidence threshold
func initializeValidator(cfg *store.Config) *validator.ActionValidator {
	return validator.New(cfg.Extraction.ConfidenceThreshold)
}

// printSummary prints the final statistics breakdown
func printSummary(ctx context.Context, s *db.Store) {
	stats, err := s.ActionStatistics()
	if err != nil {
		logger.Warn(ctx, "Failed to compute statistics", "error", err)
		return
	}

	fmt.Println()
	fmt.Println("Statistics:")
	fmt.Printf("  Total actions:      %d\n", stats.TotalActions)
	fmt.Printf("  Average confidence: %.1f%%\n", stats.AverageConfidence*100)
	fmt.Printf("  By type:            %v\n", stats.ByType)
	if len(stats.TopSymbols) > 0 {
		fmt.Printf("  Top symbols:        %v\n", stats.TopSymbols)
	}
}

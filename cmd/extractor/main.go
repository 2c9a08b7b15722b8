package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"signal-extractor/internal/logger"
	"signal-extractor/internal/pipeline"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/types"
)

func main() {
	ctx := context.Background()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = trace.Shutdown(ctx) }()

	configPath := flag.String("config", "config.yaml", "path to config file")
	limit := flag.Int("limit", 0, "max messages to process (0 = all)")
	listen := flag.Bool("listen", false, "drain the source via its listen mechanism instead of a single batch")
	flag.Parse()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	extractor, err := initializeExtractor(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize extractor: %v\n", err)
		fmt.Fprintln(os.Stderr, "Make sure OPENAI_API_KEY or ANTHROPIC_API_KEY is set for the configured provider")
		os.Exit(1)
	}

	processor := pipeline.New(initializeSource(cfg), extractor, initializeValidator(cfg), store)
	processor.SetActionCallback(func(a types.TradingAction) {
		fmt.Printf("  -> %s %s (confidence %.2f)\n", a.ActionType, a.Symbol, a.Confidence)
	})

	fmt.Printf("Processing messages from %s...\n", cfg.Source.FilePath)

	var actions []types.TradingAction
	if *listen {
		if err := processor.StartListening(ctx); err != nil {
			logger.ErrorWithErr(ctx, "Listen failed", err)
			fmt.Fprintf(os.Stderr, "Error processing messages: %v\n", err)
			os.Exit(1)
		}
	} else {
		actions, err = processor.ProcessAll(ctx, *limit)
		if err != nil {
			logger.ErrorWithErr(ctx, "Batch processing failed", err)
			fmt.Fprintf(os.Stderr, "Error processing messages: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Extracted %d trading actions\n", len(actions))
	}

	printSummary(ctx, store)
}

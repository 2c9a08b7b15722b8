package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"signal-extractor/internal/db"
	"signal-extractor/internal/export"
	"signal-extractor/internal/logger"
	"signal-extractor/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	configPath := flag.String("config", "config.yaml", "path to config file")
	out := flag.String("out", "trading_actions_results.xlsx", "output file path")
	labeling := flag.Bool("labeling", false, "write the labeling CSV instead of the Excel workbook")
	flag.Parse()

	cfg := store.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := store.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	s, err := db.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *labeling {
		if err := export.LabelingCSV(s, *out); err != nil {
			fmt.Fprintf(os.Stderr, "Labeling export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Labeling CSV written to %s\n", *out)
		return
	}

	if err := export.Workbook(s, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Excel export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Workbook written to %s\n", *out)
}

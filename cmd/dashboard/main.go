package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"signal-extractor/internal/dashboard"
	"signal-extractor/internal/db"
	"signal-extractor/internal/logger"
	"signal-extractor/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	configPath := flag.String("config", "config.yaml", "path to config file")
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

	gin.SetMode(gin.ReleaseMode)
	router := dashboard.NewRouter(s)

	logger.Info(ctx, "Starting dashboard server", "addr", cfg.Dashboard.Addr)
	fmt.Printf("Dashboard API listening on %s\n", cfg.Dashboard.Addr)

	if err := router.Run(cfg.Dashboard.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}

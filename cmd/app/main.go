package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"MarketBrief/internal/di"
	"MarketBrief/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envPath := flag.String("env", "", "optional .env file path")
	flag.Parse()

	// Secrets come from the environment; .env is a local convenience.
	if *envPath != "" {
		if err := godotenv.Load(*envPath); err != nil {
			log.Fatalf("env load failed: %v", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s timezone=%s metrics_dir=%s", cfg.Environment, cfg.Timezone, cfg.Reports.MetricsDir)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

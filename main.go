package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pranitsh/keyflare/app"
	"github.com/pranitsh/keyflare/config"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime stats")
	flag.Parse()

	// .env is optional
	envErr := godotenv.Load()

	cfg, loadErr := config.Load(*cfgPath)
	envOverrideErr := cfg.ApplyEnv(os.LookupEnv)
	if *debugFlag {
		cfg.Debug = true
	}
	validateErr := cfg.Validate()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn(".env not loaded", "error", envErr)
	}
	if loadErr != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", loadErr)
	}
	if envOverrideErr != nil {
		logger.Warn("invalid environment override", "error", envOverrideErr)
	}
	if validateErr != nil {
		logger.Warn("config values reset to defaults", "error", validateErr)
	}

	store := config.NewStore(cfg, *cfgPath)
	application, err := app.NewApp("Keyflare", store, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start()
}

// ====================================
// File: cmd/curvelab/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/app"
	"github.com/rovshanmuradov/curvelab/internal/config"
	"github.com/rovshanmuradov/curvelab/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     cfg.LogMaxSizeMB,
		MaxAge:      cfg.LogMaxAgeDays,
		MaxBackups:  cfg.LogMaxBackups,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	runner := app.NewRunner(cfg, log)
	defer runner.Shutdown()

	if err := runner.Run(context.Background(), flag.Args()); err != nil {
		log.Fatal("Command failed", zap.Error(err))
	}
}

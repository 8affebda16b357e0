package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accountantiq/accountantiq-backend/internal/api"
	"github.com/accountantiq/accountantiq-backend/internal/domain/matcher"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
	"github.com/accountantiq/accountantiq-backend/internal/exporter"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/config"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/logging"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
	"github.com/accountantiq/accountantiq-backend/internal/workspace"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		client     = flag.String("client", "", "Client workspace slug (overrides config)")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	slug := cfg.Storage.DefaultClient
	if *client != "" {
		slug = *client
	}
	ws := workspace.New(cfg.Storage.DataRoot, slug)

	dbPath, err := ws.ReviewDBPath()
	if err != nil {
		logger.Error("Failed to prepare workspace", "error", err)
		os.Exit(1)
	}
	repo, err := storage.NewStorage(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	rulesPath, err := ws.RulesPath()
	if err != nil {
		logger.Error("Failed to prepare rules directory", "error", err)
		os.Exit(1)
	}
	profilesDir, err := ws.ProfilesDir()
	if err != nil {
		logger.Error("Failed to prepare profiles directory", "error", err)
		os.Exit(1)
	}
	outputDir, err := ws.OutputsDir()
	if err != nil {
		logger.Error("Failed to prepare output directory", "error", err)
		os.Exit(1)
	}

	serverCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Matcher:        matcher.Config{MinFuzzyScore: cfg.Matcher.MinFuzzyScore},
	}
	server := api.NewServer(serverCfg, api.Deps{
		Repo:      repo,
		Rules:     rules.NewStore(rulesPath),
		Profiles:  exporter.NewProfileStore(profilesDir),
		OutputDir: outputDir,
	}, logger)

	// Serve until interrupted, then drain in-flight requests.
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("Received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

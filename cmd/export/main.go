package main

import (
	"flag"
	"os"

	"github.com/accountantiq/accountantiq-backend/internal/exporter"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/config"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/logging"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
	"github.com/accountantiq/accountantiq-backend/internal/workspace"
)

func main() {
	var (
		configFile   = flag.String("config", "config.yaml", "Configuration file path")
		client       = flag.String("client", "", "Client workspace slug (overrides config)")
		profileName  = flag.String("profile", "default", "Export profile name")
		reviewedOnly = flag.Bool("reviewed-only", false, "Export only approved and overridden items")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "export")

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
		logger.Error("Failed to open review queue", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	profilesDir, err := ws.ProfilesDir()
	if err != nil {
		logger.Error("Failed to prepare profiles directory", "error", err)
		os.Exit(1)
	}
	profile, err := exporter.NewProfileStore(profilesDir).Load(*profileName)
	if err != nil {
		logger.Error("Failed to load export profile", "profile", *profileName, "error", err)
		os.Exit(1)
	}

	items, err := repo.ListItems()
	if err != nil {
		logger.Error("Failed to read review queue", "error", err)
		os.Exit(1)
	}
	if *reviewedOnly {
		items = exporter.Reviewed(items)
	}
	if len(items) == 0 {
		logger.Warn("Nothing to export")
		os.Exit(0)
	}

	outputDir, err := ws.OutputsDir()
	if err != nil {
		logger.Error("Failed to prepare output directory", "error", err)
		os.Exit(1)
	}
	path, err := exporter.Export(outputDir, items, profile)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Export complete", "path", path, "rows", len(items), "profile", profile.Name)
}

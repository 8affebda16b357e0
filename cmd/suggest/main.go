package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/accountantiq/accountantiq-backend/internal/application/service"
	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/matcher"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/config"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/logging"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
	"github.com/accountantiq/accountantiq-backend/internal/workspace"
)

// suggestOutput pairs every parsed transaction with its suggestion.
type suggestOutput struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Suggestions  []ledger.Suggestion  `json:"suggestions"`
}

func main() {
	var (
		configFile  = flag.String("config", "config.yaml", "Configuration file path")
		client      = flag.String("client", "", "Client workspace slug (overrides config)")
		bankFile    = flag.String("bank", "", "Bank CSV export to code (required)")
		historyFile = flag.String("history", "", "Sage history CSV (required)")
		outFile     = flag.String("out", "", "Write suggestions JSON here instead of stdout")
		queue       = flag.Bool("queue", false, "Load results into the review queue")
		reset       = flag.Bool("reset", false, "Clear the review queue before loading")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "suggest")

	if *bankFile == "" || *historyFile == "" {
		logger.Error("Both -bank and -history are required")
		flag.Usage()
		os.Exit(1)
	}

	slug := cfg.Storage.DefaultClient
	if *client != "" {
		slug = *client
	}
	ws := workspace.New(cfg.Storage.DataRoot, slug)

	pipeline := service.NewPipelineService(
		matcher.Config{MinFuzzyScore: cfg.Matcher.MinFuzzyScore},
		ruleStore(ws, logger),
		logger,
	)

	bank := mustOpen(*bankFile, logger)
	defer bank.Close()
	history := mustOpen(*historyFile, logger)
	defer history.Close()

	txns, suggestions, err := pipeline.SuggestCSV(bank, history)
	if err != nil {
		logger.Error("Failed to run suggestion pipeline", "error", err)
		os.Exit(1)
	}

	coded := 0
	for _, s := range suggestions {
		if s.Nominal != "" {
			coded++
		}
	}
	logger.Info("Scoring complete",
		"transactions", len(txns),
		"suggested", coded,
		"unmatched", len(suggestions)-coded,
	)

	if *queue {
		loadQueue(ws, txns, suggestions, *reset, logger)
	}

	writeOutput(*outFile, suggestOutput{Transactions: txns, Suggestions: suggestions}, logger)
}

func mustOpen(path string, logger *slog.Logger) *os.File {
	f, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open input", "path", path, "error", err)
		os.Exit(1)
	}
	return f
}

func ruleStore(ws *workspace.Workspace, logger *slog.Logger) *rules.Store {
	rulesPath, err := ws.RulesPath()
	if err != nil {
		logger.Warn("Rules unavailable, continuing without overrides", "error", err)
		return nil
	}
	return rules.NewStore(rulesPath)
}

func loadQueue(ws *workspace.Workspace, txns []ledger.Transaction, suggestions []ledger.Suggestion, reset bool, logger *slog.Logger) {
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

	items, err := repo.ImportBatch(txns, suggestions, reset)
	if err != nil {
		logger.Error("Failed to load review queue", "error", err)
		os.Exit(1)
	}
	logger.Info("Loaded review queue", "items", len(items), "db", dbPath)
}

func writeOutput(path string, output suggestOutput, logger *slog.Logger) {
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Error("Failed to encode output", "error", err)
		os.Exit(1)
	}

	if path == "" {
		os.Stdout.Write(encoded)
		os.Stdout.WriteString("\n")
		return
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		logger.Error("Failed to write output", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("Wrote suggestions", "path", path)
}

// Package service wires the parsing, matching and rule layers into one
// suggestion pipeline shared by the API server and the CLI tools.
package service

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/accountantiq/accountantiq-backend/internal/adapters/ingest"
	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/matcher"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
)

// PipelineService runs bank transactions through the matcher and applies
// any configured override rules on top.
type PipelineService struct {
	config matcher.Config
	store  *rules.Store
	logger *slog.Logger
}

// NewPipelineService creates a pipeline service. The rule store may be
// nil, in which case no override rules are applied.
func NewPipelineService(config matcher.Config, store *rules.Store, logger *slog.Logger) *PipelineService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PipelineService{config: config, store: store, logger: logger}
}

// Suggest scores every transaction against the given history. The
// returned slice is index-aligned with txns.
func (s *PipelineService) Suggest(txns []ledger.Transaction, history []ledger.HistoryEntry) []ledger.Suggestion {
	m := matcher.New(history, s.config)
	suggestions := m.SuggestMany(txns)

	overrides := s.loadRules()
	if len(overrides) == 0 {
		return suggestions
	}

	overridden := 0
	for i, txn := range txns {
		updated := rules.Apply(overrides, txn, suggestions[i])
		if updated.Nominal != suggestions[i].Nominal || updated.TaxCode != suggestions[i].TaxCode {
			overridden++
		}
		suggestions[i] = updated
	}
	if overridden > 0 {
		s.logger.Info("applied override rules", "rules", len(overrides), "overridden", overridden)
	}
	return suggestions
}

// SuggestCSV parses a bank CSV and an optional Sage history CSV, then
// scores the parsed transactions. historyCSV may be nil.
func (s *PipelineService) SuggestCSV(bankCSV, historyCSV io.Reader) ([]ledger.Transaction, []ledger.Suggestion, error) {
	txns, err := ingest.NewBankParser(s.logger).Parse(bankCSV)
	if err != nil {
		return nil, nil, fmt.Errorf("bank csv: %w", err)
	}

	var history []ledger.HistoryEntry
	if historyCSV != nil {
		history, err = ingest.NewSageParser(s.logger).Parse(historyCSV)
		if err != nil {
			return nil, nil, fmt.Errorf("history csv: %w", err)
		}
	}

	return txns, s.Suggest(txns, history), nil
}

func (s *PipelineService) loadRules() []rules.Rule {
	if s.store == nil {
		return nil
	}
	overrides, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to load rules, continuing without overrides", "error", err)
		return nil
	}
	return overrides
}

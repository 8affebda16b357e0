package dto

import (
	"time"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// SuggestResponse is returned by the stateless suggestion endpoints.
type SuggestResponse struct {
	Suggestions []ledger.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

// SuggestCSVResponse additionally echoes the transactions parsed from
// the submitted bank CSV so callers can line them up with suggestions.
type SuggestCSVResponse struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Suggestions  []ledger.Suggestion  `json:"suggestions"`
	Count        int                  `json:"count"`
}

// ReviewListResponse is returned when listing the review queue.
type ReviewListResponse struct {
	Items []storage.ReviewItem `json:"items"`
	Count int                  `json:"count"`
}

// RuleListResponse is returned when listing override rules.
type RuleListResponse struct {
	Rules []rules.Rule `json:"rules"`
	Count int          `json:"count"`
}

// ExportResponse reports where the rendered CSV was written.
type ExportResponse struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

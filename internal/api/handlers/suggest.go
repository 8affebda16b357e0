package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/dto"
	"github.com/accountantiq/accountantiq-backend/internal/application/service"
)

// SuggestHandler serves the stateless suggestion endpoints. Each request
// carries its own history, so no state survives between calls.
type SuggestHandler struct {
	pipeline *service.PipelineService
}

// NewSuggestHandler creates a suggestion handler.
func NewSuggestHandler(pipeline *service.PipelineService) *SuggestHandler {
	return &SuggestHandler{pipeline: pipeline}
}

// Suggest handles POST /api/suggest with pre-parsed JSON payloads.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}

	suggestions := h.pipeline.Suggest(req.Transactions, req.History)
	c.JSON(http.StatusOK, dto.SuggestResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

// SuggestCSV handles POST /api/suggest/csv with raw CSV payloads.
func (h *SuggestHandler) SuggestCSV(c *gin.Context) {
	var req dto.SuggestCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.BankCSV) == "" {
		c.JSON(http.StatusBadRequest, dto.ValidationError("bank_csv is required"))
		return
	}

	var historyReader io.Reader
	if strings.TrimSpace(req.HistoryCSV) != "" {
		historyReader = strings.NewReader(req.HistoryCSV)
	}

	txns, suggestions, err := h.pipeline.SuggestCSV(strings.NewReader(req.BankCSV), historyReader)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuggestCSVResponse{
		Transactions: txns,
		Suggestions:  suggestions,
		Count:        len(suggestions),
	})
}

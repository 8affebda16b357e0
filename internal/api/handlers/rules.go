package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/dto"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
)

// RulesHandler serves the override-rule endpoints.
type RulesHandler struct {
	store *rules.Store
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(store *rules.Store) *RulesHandler {
	return &RulesHandler{store: store}
}

// List handles GET /api/rules.
func (h *RulesHandler) List(c *gin.Context) {
	loaded, err := h.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	if loaded == nil {
		loaded = []rules.Rule{}
	}
	c.JSON(http.StatusOK, dto.RuleListResponse{
		Rules: loaded,
		Count: len(loaded),
	})
}

// Add handles POST /api/rules.
func (h *RulesHandler) Add(c *gin.Context) {
	var req dto.AddRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}
	if req.Pattern == "" || req.NominalCode == "" {
		c.JSON(http.StatusBadRequest, dto.ValidationError("pattern and nominal_code are required"))
		return
	}
	if _, err := regexp.Compile("(?i)" + req.Pattern); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError("pattern is not a valid regex"))
		return
	}

	rule := rules.Rule{
		Name:    req.Name,
		Pattern: req.Pattern,
		Nominal: req.NominalCode,
		TaxCode: req.TaxCode,
	}
	added, err := h.store.Add(rule)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK // duplicate, already present
	}
	c.JSON(status, rule)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/dto"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
)

// ReviewHandler serves the review queue endpoints.
type ReviewHandler struct {
	repo storage.Repository
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(repo storage.Repository) *ReviewHandler {
	return &ReviewHandler{repo: repo}
}

// List handles GET /api/review.
func (h *ReviewHandler) List(c *gin.Context) {
	items, err := h.repo.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.ReviewListResponse{
		Items: items,
		Count: len(items),
	})
}

// Get handles GET /api/review/:txnId.
func (h *ReviewHandler) Get(c *gin.Context) {
	item, err := h.repo.GetItem(c.Param("txnId"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Import handles POST /api/review/import.
func (h *ReviewHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}
	if len(req.Transactions) != len(req.Suggestions) {
		c.JSON(http.StatusBadRequest, dto.ValidationError("transactions and suggestions must be the same length"))
		return
	}

	items, err := h.repo.ImportBatch(req.Transactions, req.Suggestions, req.Reset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.ReviewListResponse{
		Items: items,
		Count: len(items),
	})
}

// Approve handles POST /api/review/:txnId/approve.
func (h *ReviewHandler) Approve(c *gin.Context) {
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}

	item, err := h.repo.Approve(c.Param("txnId"), req.Note)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Override handles POST /api/review/:txnId/override.
func (h *ReviewHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}
	if req.NominalCode == "" {
		c.JSON(http.StatusBadRequest, dto.ValidationError("nominal_code is required"))
		return
	}

	item, err := h.repo.Override(c.Param("txnId"), req.NominalCode, req.TaxCode, req.Note)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ReviewHandler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NotFoundError("review item"))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.InternalError())
}

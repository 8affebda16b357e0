package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/dto"
	"github.com/accountantiq/accountantiq-backend/internal/exporter"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
)

// ExportHandler renders the review queue as a Sage import CSV.
type ExportHandler struct {
	repo      storage.Repository
	profiles  *exporter.ProfileStore
	outputDir string
}

// NewExportHandler creates a new export handler.
func NewExportHandler(repo storage.Repository, profiles *exporter.ProfileStore, outputDir string) *ExportHandler {
	return &ExportHandler{repo: repo, profiles: profiles, outputDir: outputDir}
}

// Export handles POST /api/export.
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}

	profile := exporter.DefaultProfile()
	if req.Profile != "" {
		loaded, err := h.profiles.Load(req.Profile)
		if err != nil {
			c.JSON(http.StatusNotFound, dto.NotFoundError("export profile '"+req.Profile+"'"))
			return
		}
		profile = loaded
	}

	items, err := h.repo.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if req.ReviewedOnly {
		items = exporter.Reviewed(items)
	}

	path, err := exporter.Export(h.outputDir, items, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.ExportResponse{
		Path: path,
		Rows: len(items),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/audio-extract-go/internal/app"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

// ExtractionHandler handles metadata, extraction and history requests
type ExtractionHandler struct {
	service *app.ExtractionService
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(service *app.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{service: service}
}

// InfoRequest is the body of POST /api/v1/info
type InfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// ExtractRequest is the body of POST /api/v1/extractions
type ExtractRequest struct {
	URL     string `json:"url" binding:"required"`
	Format  string `json:"format,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// OutputPathRequest is the body of PUT /api/v1/output-path
type OutputPathRequest struct {
	Path string `json:"path" binding:"required"`
}

// Info handles POST /api/v1/info
func (h *ExtractionHandler) Info(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	info, err := h.service.Info(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Extract handles POST /api/v1/extractions. It blocks until the tool finishes.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Extract(c.Request.Context(), domain.DownloadRequest{
		URL:     req.URL,
		Format:  domain.AudioFormat(req.Format),
		Quality: domain.QualityTier(req.Quality),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListExtractions handles GET /api/v1/extractions?status=
func (h *ExtractionHandler) ListExtractions(c *gin.Context) {
	jobs, err := h.service.ListJobs(domain.JobStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	if jobs == nil {
		jobs = []*domain.ExtractionJob{}
	}

	c.JSON(http.StatusOK, gin.H{
		"extractions": jobs,
		"count":       len(jobs),
	})
}

// GetExtraction handles GET /api/v1/extractions/:id
func (h *ExtractionHandler) GetExtraction(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteExtraction handles DELETE /api/v1/extractions/:id
func (h *ExtractionHandler) DeleteExtraction(c *gin.Context) {
	if err := h.service.DeleteJob(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStats handles GET /api/v1/extractions/stats
func (h *ExtractionHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetOutputPath handles GET /api/v1/output-path
func (h *ExtractionHandler) GetOutputPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"path": h.service.OutputPath()})
}

// SetOutputPath handles PUT /api/v1/output-path
func (h *ExtractionHandler) SetOutputPath(c *gin.Context) {
	var req OutputPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.SetOutputPath(req.Path); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": h.service.OutputPath()})
}

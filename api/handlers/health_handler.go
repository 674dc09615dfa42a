package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/audio-extract-go/internal/app"
)

// Version is the service version reported by /health
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	service *app.ExtractionService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *app.ExtractionService) *HealthHandler {
	return &HealthHandler{service: service}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Tool    struct {
		Available bool   `json:"available"`
		Version   string `json:"version,omitempty"`
	} `json:"tool"`
	OutputPath string `json:"output_path"`
}

// Health handles GET /health. The service itself is up even when the tool is not.
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:     "ok",
		Version:    Version,
		OutputPath: h.service.OutputPath(),
	}
	if version, err := h.service.Version(c.Request.Context()); err == nil {
		response.Tool.Available = true
		response.Tool.Version = version
	}

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.service.Available(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "yt-dlp not available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

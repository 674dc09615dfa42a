package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/audio-extract-go/internal/app"
	"github.com/yourusername/audio-extract-go/internal/domain"
	"github.com/yourusername/audio-extract-go/internal/infrastructure"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var fetchErr *domain.FetchError
	var downloadErr *domain.DownloadError

	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, infrastructure.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrHistoryDisabled):
		return http.StatusNotImplemented
	case domain.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetchErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &downloadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if kind := domain.ClassifyError(err); kind != domain.ErrorKindInternal {
		resp.Kind = string(kind)
	}

	var fetchErr *domain.FetchError
	var downloadErr *domain.DownloadError
	if errors.As(err, &fetchErr) {
		resp.Stderr = fetchErr.Stderr
	} else if errors.As(err, &downloadErr) {
		resp.Stderr = downloadErr.Stderr
	}

	_ = c.Error(err)
	c.JSON(statusFor(err), resp)
}

package infrastructure

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

// Metadata defaults for fields the tool omits
const (
	UnknownTitle    = "Unknown"
	UnknownUploader = "Unknown"
	randomIDLength  = 10
)

// ytdlpInfo is the subset of `yt-dlp --dump-json` this service reads.
// Every field is optional.
type ytdlpInfo struct {
	ID        *string  `json:"id"`
	Title     *string  `json:"title"`
	Duration  *float64 `json:"duration"`
	Thumbnail *string  `json:"thumbnail"`
	Uploader  *string  `json:"uploader"`
}

// parseMediaInfo decodes the tool's metadata JSON and applies per-field defaults
func parseMediaInfo(data []byte) (*domain.MediaInfo, error) {
	var raw ytdlpInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}

	info := &domain.MediaInfo{
		ID:              stringOr(raw.ID, randomToken(randomIDLength)),
		Title:           stringOr(raw.Title, UnknownTitle),
		DurationSeconds: 0,
		Uploader:        stringOr(raw.Uploader, UnknownUploader),
	}
	if raw.Duration != nil {
		info.DurationSeconds = *raw.Duration
	}
	if raw.Thumbnail != nil && *raw.Thumbnail != "" {
		thumb := *raw.Thumbnail
		info.ThumbnailURL = &thumb
	}

	return info, nil
}

func stringOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

// randomToken returns n random alphanumeric characters (n <= 32)
func randomToken(n int) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(token) {
		n = len(token)
	}
	return token[:n]
}

package domain

import "context"

// AudioExtractor is the caller-facing seam around the external tool
type AudioExtractor interface {
	// GetInfo fetches metadata for a single item without downloading media
	GetInfo(ctx context.Context, url string) (*MediaInfo, error)

	// DownloadAudio extracts audio for the request into the output directory
	DownloadAudio(ctx context.Context, req DownloadRequest) (*DownloadResult, error)

	// OutputPath returns the current output directory
	OutputPath() string

	// SetOutputPath changes the output directory, creating it if absent
	SetOutputPath(path string) error

	// IsAvailable reports whether the tool answers a version query
	IsAvailable(ctx context.Context) bool

	// Version returns the tool's version string
	Version(ctx context.Context) (string, error)
}

// InfoCache stores metadata by URL
type InfoCache interface {
	// Get returns the cached metadata, or nil when absent
	Get(ctx context.Context, url string) (*MediaInfo, error)

	Set(ctx context.Context, url string, info *MediaInfo) error
}

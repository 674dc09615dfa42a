package domain

import (
	"regexp"
	"strings"
)

// AudioFormat is the target codec passed to the external tool
type AudioFormat string

const (
	FormatMP3    AudioFormat = "mp3"
	FormatOpus   AudioFormat = "opus"
	FormatM4A    AudioFormat = "m4a"
	FormatAAC    AudioFormat = "aac"
	FormatFLAC   AudioFormat = "flac"
	FormatWAV    AudioFormat = "wav"
	FormatVorbis AudioFormat = "vorbis"
	FormatALAC   AudioFormat = "alac"
	FormatBest   AudioFormat = "best"
)

// QualityTier is a coarse logical bitrate selector
type QualityTier string

const (
	Quality128 QualityTier = "128"
	Quality192 QualityTier = "192"
	Quality256 QualityTier = "256"
	Quality320 QualityTier = "320"
)

// Request defaults
const (
	DefaultFormat  = FormatMP3
	DefaultQuality = Quality320
)

// MaxFilenameLength is measured in bytes
const MaxFilenameLength = 200

// FallbackFilename is used when a title sanitizes to nothing
const FallbackFilename = "download"

// MediaInfo is the metadata reported by the external tool for a single item
type MediaInfo struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration"`
	ThumbnailURL    *string `json:"thumbnail,omitempty"`
	Uploader        string  `json:"uploader"`
}

// DownloadRequest describes one audio extraction
type DownloadRequest struct {
	URL     string      `json:"url"`
	Format  AudioFormat `json:"format"`
	Quality QualityTier `json:"quality"`
}

// WithDefaults returns a copy with empty format and quality filled in
func (r DownloadRequest) WithDefaults() DownloadRequest {
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.Quality == "" {
		r.Quality = DefaultQuality
	}
	return r
}

// DownloadResult describes the file produced by a successful extraction
type DownloadResult struct {
	Success  bool   `json:"success"`
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Quality  string `json:"quality"`
}

var bitrateFormats = map[AudioFormat]bool{
	FormatMP3:  true,
	FormatOpus: true,
	FormatM4A:  true,
	FormatAAC:  true,
}

var qualityTokens = map[QualityTier]string{
	Quality128: "128K",
	Quality192: "192K",
	Quality256: "256K",
	Quality320: "320K",
}

// IsBitrateFormat reports whether quality tiers apply to the format
func IsBitrateFormat(format AudioFormat) bool {
	return bitrateFormats[format]
}

// MapQuality translates a quality tier into the tool's --audio-quality token.
// Lossy bitrate codecs get an explicit bitrate (unknown tiers fall back to 192K);
// every other format gets "0", leaving the choice to the tool.
func MapQuality(quality QualityTier, format AudioFormat) string {
	if !IsBitrateFormat(format) {
		return "0"
	}
	if token, ok := qualityTokens[quality]; ok {
		return token
	}
	return "192K"
}

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`[\s\v\p{Zs}]+`)
)

// SanitizeFilename turns a media title into a filesystem-safe base name.
//
// The result is cut at MaxFilenameLength bytes, which may split a multi-byte
// character. It is never empty.
func SanitizeFilename(raw string) string {
	name := illegalFilenameChars.ReplaceAllString(raw, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if len(name) > MaxFilenameLength {
		name = strings.TrimRight(name[:MaxFilenameLength], " ")
	}

	if name == "" {
		return FallbackFilename
	}
	return name
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRequest() DownloadRequest {
	return DownloadRequest{URL: "https://www.youtube.com/watch?v=abc"}.WithDefaults()
}

func TestNewExtractionJob(t *testing.T) {
	job := NewExtractionJob(newTestRequest())

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", job.URL)
	assert.Equal(t, "mp3", job.Format)
	assert.Equal(t, "320", job.Quality)
	assert.Equal(t, StatusProcessing, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.False(t, job.IsTerminal())
}

func TestExtractionJob_MarkCompleted(t *testing.T) {
	job := NewExtractionJob(newTestRequest())

	job.MarkCompleted(&DownloadResult{
		Success:  true,
		Title:    "Song",
		FilePath: "/music/Song.mp3",
		FileName: "Song.mp3",
	})

	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, "Song", job.Title)
	assert.Equal(t, "/music/Song.mp3", job.FilePath)
	assert.Equal(t, "Song.mp3", job.FileName)
	assert.NotNil(t, job.CompletedAt)
	assert.True(t, job.IsTerminal())
	assert.GreaterOrEqual(t, job.Duration().Nanoseconds(), int64(0))
}

func TestExtractionJob_MarkFailed(t *testing.T) {
	job := NewExtractionJob(newTestRequest())

	job.MarkFailed(&DownloadError{Stderr: "ERROR: unsupported URL"})

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, ErrorKindDownload, job.ErrorKind)
	assert.Contains(t, job.ErrorMessage, "unsupported URL")
	assert.True(t, job.IsTerminal())
}

func TestExtractionJob_DurationOnlyWhenTerminal(t *testing.T) {
	job := NewExtractionJob(newTestRequest())
	done := job.StartedAt.Add(3 * time.Second)

	// timestamps alone do not make a processing job finished
	job.CompletedAt = &done
	assert.Zero(t, job.Duration())

	job.Status = StatusCompleted
	assert.Equal(t, 3*time.Second, job.Duration())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, ErrorKindNone},
		{"fetch", &FetchError{Stderr: "geo blocked"}, ErrorKindFetch},
		{"download", &DownloadError{Stderr: "ffmpeg not found"}, ErrorKindDownload},
		{"wrapped fetch", fmt.Errorf("extract: %w", &FetchError{}), ErrorKindFetch},
		{"fetch timeout", &FetchError{Err: fmt.Errorf("%w: %v", ErrTimeout, context.DeadlineExceeded)}, ErrorKindTimeout},
		{"download timeout", &DownloadError{Err: ErrTimeout}, ErrorKindTimeout},
		{"other", errors.New("disk full"), ErrorKindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestValidateStatus(t *testing.T) {
	assert.True(t, ValidateStatus(StatusProcessing))
	assert.True(t, ValidateStatus(StatusCompleted))
	assert.True(t, ValidateStatus(StatusFailed))
	assert.False(t, ValidateStatus("queued"))
}

func TestValidateFormat(t *testing.T) {
	assert.True(t, ValidateFormat(FormatMP3))
	assert.True(t, ValidateFormat(FormatFLAC))
	assert.True(t, ValidateFormat(FormatBest))
	assert.False(t, ValidateFormat("mp4"))
	assert.False(t, ValidateFormat(""))
}

func TestValidateQuality(t *testing.T) {
	for _, q := range []QualityTier{Quality128, Quality192, Quality256, Quality320} {
		assert.True(t, ValidateQuality(q), q)
	}
	assert.False(t, ValidateQuality(""))
	assert.False(t, ValidateQuality("999"))
}

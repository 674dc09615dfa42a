package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current status of an extraction job
type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ErrorKind classifies why a job failed
type ErrorKind string

const (
	ErrorKindNone     ErrorKind = ""
	ErrorKindFetch    ErrorKind = "fetch"
	ErrorKindDownload ErrorKind = "download"
	ErrorKindTimeout  ErrorKind = "timeout"
	ErrorKindInternal ErrorKind = "internal"
)

// ExtractionJob is the history record of one DownloadAudio call
type ExtractionJob struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	URL          string     `json:"url" gorm:"not null;index"`
	Format       string     `json:"format" gorm:"not null"`
	Quality      string     `json:"quality" gorm:"not null"`
	Status       JobStatus  `json:"status" gorm:"not null;index"`
	Title        string     `json:"title,omitempty"`
	FilePath     string     `json:"file_path,omitempty"`
	FileName     string     `json:"file_name,omitempty"`
	ErrorKind    ErrorKind  `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	Metadata     string     `json:"metadata,omitempty" gorm:"type:text"` // JSON MediaInfo
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (ExtractionJob) TableName() string {
	return "extraction_jobs"
}

// NewExtractionJob creates a job record for a request; defaults must already be applied
func NewExtractionJob(req DownloadRequest) *ExtractionJob {
	now := time.Now()
	return &ExtractionJob{
		ID:        uuid.New().String(),
		URL:       req.URL,
		Format:    string(req.Format),
		Quality:   string(req.Quality),
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
		StartedAt: &now,
	}
}

// MarkCompleted marks the job as completed with the produced file
func (j *ExtractionJob) MarkCompleted(result *DownloadResult) {
	j.Status = StatusCompleted
	j.Title = result.Title
	j.FilePath = result.FilePath
	j.FileName = result.FileName
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks the job as failed and classifies the error
func (j *ExtractionJob) MarkFailed(err error) {
	j.Status = StatusFailed
	j.ErrorMessage = err.Error()
	j.ErrorKind = ClassifyError(err)
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IsTerminal checks if the job is in a terminal state
func (j *ExtractionJob) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Duration returns how long the job ran, zero while still processing
func (j *ExtractionJob) Duration() time.Duration {
	if !j.IsTerminal() || j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

// ClassifyError maps an extraction error to an ErrorKind
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	if IsTimeout(err) {
		return ErrorKindTimeout
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return ErrorKindFetch
	}
	var downloadErr *DownloadError
	if errors.As(err, &downloadErr) {
		return ErrorKindDownload
	}
	return ErrorKindInternal
}

// ValidateStatus checks if a job status is valid
func ValidateStatus(status JobStatus) bool {
	return status == StatusProcessing || status == StatusCompleted || status == StatusFailed
}

// ValidateFormat checks if an audio format is one the tool accepts
func ValidateFormat(format AudioFormat) bool {
	switch format {
	case FormatMP3, FormatOpus, FormatM4A, FormatAAC, FormatFLAC, FormatWAV, FormatVorbis, FormatALAC, FormatBest:
		return true
	default:
		return false
	}
}

// ValidateQuality checks if a quality tier is one of the known tiers
func ValidateQuality(quality QualityTier) bool {
	_, ok := qualityTokens[quality]
	return ok
}

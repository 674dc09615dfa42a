package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/audio-extract-go/internal/domain"
	"github.com/yourusername/audio-extract-go/internal/infrastructure"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest is wrapped by validation failures on caller input
	ErrInvalidRequest = errors.New("invalid request")
	// ErrHistoryDisabled is returned by history operations when no repository is configured
	ErrHistoryDisabled = errors.New("extraction history is disabled")
)

// EventLogger receives extraction lifecycle events and application errors
type EventLogger interface {
	LogExtractEvent(event string, fields ...zap.Field)
	LogAppError(msg string, fields ...zap.Field)
}

// ExtractionResult is a DownloadResult plus the history record it was filed under
type ExtractionResult struct {
	JobID string `json:"job_id,omitempty"`
	domain.DownloadResult
}

// ExtractionService coordinates the extractor with history, caching and notifications.
// repo, cache, notifier and events are optional.
type ExtractionService struct {
	extractor domain.AudioExtractor
	repo      domain.JobRepository
	cache     domain.InfoCache
	notifier  *infrastructure.NotificationService
	events    EventLogger
	config    *domain.ExtractConfig
	logger    *zap.Logger
}

// NewExtractionService creates a new extraction service
func NewExtractionService(
	extractor domain.AudioExtractor,
	repo domain.JobRepository,
	cache domain.InfoCache,
	notifier *infrastructure.NotificationService,
	events EventLogger,
	config *domain.ExtractConfig,
	logger *zap.Logger,
) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &domain.DefaultConfig().Extract
	}
	return &ExtractionService{
		extractor: extractor,
		repo:      repo,
		cache:     cache,
		notifier:  notifier,
		events:    events,
		config:    config,
		logger:    logger,
	}
}

// Info returns metadata for url, served from the cache when possible
func (s *ExtractionService) Info(ctx context.Context, url string) (*domain.MediaInfo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, url)
		if err != nil {
			s.logger.Warn("Metadata cache read failed", zap.String("url", url), zap.Error(err))
		} else if cached != nil {
			s.logger.Debug("Metadata cache hit", zap.String("url", url))
			return cached, nil
		}
	}

	info, err := s.extractor.GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, url, info); err != nil {
			s.logger.Warn("Metadata cache write failed", zap.String("url", url), zap.Error(err))
		}
	}

	return info, nil
}

// Extract runs one extraction synchronously and files it in the history
func (s *ExtractionService) Extract(ctx context.Context, req domain.DownloadRequest) (*ExtractionResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	job := domain.NewExtractionJob(req)
	s.recordCreate(job)
	s.logEvent("extraction_started",
		zap.String("job_id", job.ID),
		zap.String("url", req.URL),
		zap.String("format", string(req.Format)),
		zap.String("quality", string(req.Quality)))

	result, err := s.extractor.DownloadAudio(ctx, req)
	if err != nil {
		job.MarkFailed(err)
		s.recordUpdate(job)

		s.logger.Error("Extraction failed",
			zap.String("job_id", job.ID),
			zap.String("url", req.URL),
			zap.String("kind", string(job.ErrorKind)),
			zap.Error(err))
		s.logEvent("extraction_failed",
			zap.String("job_id", job.ID),
			zap.String("url", req.URL),
			zap.String("kind", string(job.ErrorKind)),
			zap.String("error", err.Error()))

		s.notifier.NotifyExtractionFailed(req.URL, err)
		return nil, err
	}

	job.MarkCompleted(result)
	job.Metadata = s.cachedMetadata(ctx, req.URL)
	s.recordUpdate(job)

	s.logger.Info("Extraction completed",
		zap.String("job_id", job.ID),
		zap.String("file", result.FilePath),
		zap.Duration("took", job.Duration()))
	s.logEvent("extraction_completed",
		zap.String("job_id", job.ID),
		zap.String("url", req.URL),
		zap.String("file", result.FilePath),
		zap.Duration("took", job.Duration()))

	s.notifier.NotifyExtractionCompleted(result)

	out := &ExtractionResult{DownloadResult: *result}
	if s.repo != nil {
		out.JobID = job.ID
	}
	return out, nil
}

// normalize fills configured defaults and validates the request
func (s *ExtractionService) normalize(req domain.DownloadRequest) (domain.DownloadRequest, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return req, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	if req.Format == "" {
		req.Format = domain.AudioFormat(s.config.DefaultFormat)
	}
	if req.Quality == "" {
		req.Quality = domain.QualityTier(s.config.DefaultQuality)
	}
	req = req.WithDefaults()

	if !domain.ValidateFormat(req.Format) {
		return req, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, req.Format)
	}
	// the tool ignores the tier for non-bitrate formats
	if domain.IsBitrateFormat(req.Format) && !domain.ValidateQuality(req.Quality) {
		return req, fmt.Errorf("%w: unsupported quality %q", ErrInvalidRequest, req.Quality)
	}
	return req, nil
}

// cachedMetadata returns the cached MediaInfo for url as JSON, or ""
func (s *ExtractionService) cachedMetadata(ctx context.Context, url string) string {
	if s.cache == nil {
		return ""
	}
	info, err := s.cache.Get(ctx, url)
	if err != nil || info == nil {
		return ""
	}
	data, err := json.Marshal(info)
	if err != nil {
		return ""
	}
	return string(data)
}

// Available reports whether the external tool can be run
func (s *ExtractionService) Available(ctx context.Context) bool {
	return s.extractor.IsAvailable(ctx)
}

// Version returns the external tool's version string
func (s *ExtractionService) Version(ctx context.Context) (string, error) {
	return s.extractor.Version(ctx)
}

// OutputPath returns the current output directory
func (s *ExtractionService) OutputPath() string {
	return s.extractor.OutputPath()
}

// SetOutputPath changes the output directory for subsequent extractions
func (s *ExtractionService) SetOutputPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidRequest)
	}
	path = expandPath(path)

	if err := s.extractor.SetOutputPath(path); err != nil {
		return err
	}

	s.logger.Info("Output directory changed", zap.String("path", path))
	s.logEvent("output_path_changed", zap.String("path", path))
	return nil
}

// GetJob returns a history record by ID
func (s *ExtractionService) GetJob(id string) (*domain.ExtractionJob, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.FindByID(id)
}

// ListJobs returns history records, newest first. An empty status lists everything.
func (s *ExtractionService) ListJobs(status domain.JobStatus) ([]*domain.ExtractionJob, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if status == "" {
		return s.repo.FindAll(nil)
	}
	if !domain.ValidateStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	return s.repo.FindByStatus(status)
}

// GetStats returns history counts per status
func (s *ExtractionService) GetStats() (*domain.JobStats, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetStats()
}

// DeleteJob removes a history record. The audio file is left in place.
func (s *ExtractionService) DeleteJob(id string) error {
	if s.repo == nil {
		return ErrHistoryDisabled
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("Extraction job deleted", zap.String("job_id", id))
	return nil
}

func (s *ExtractionService) recordCreate(job *domain.ExtractionJob) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(job); err != nil {
		s.logger.Error("Failed to record extraction job", zap.String("job_id", job.ID), zap.Error(err))
		s.logAppError("history create failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ExtractionService) recordUpdate(job *domain.ExtractionJob) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Update(job); err != nil {
		s.logger.Error("Failed to update extraction job", zap.String("job_id", job.ID), zap.Error(err))
		s.logAppError("history update failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ExtractionService) logEvent(event string, fields ...zap.Field) {
	if s.events != nil {
		s.events.LogExtractEvent(event, fields...)
	}
}

func (s *ExtractionService) logAppError(msg string, fields ...zap.Field) {
	if s.events != nil {
		s.events.LogAppError(msg, fields...)
	}
}

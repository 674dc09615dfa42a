package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/audio-extract-go/internal/domain"
	"go.uber.org/zap"
)

// mockJobRepo implements domain.JobRepository for testing
type mockJobRepo struct {
	jobs      map[string]*domain.ExtractionJob
	createErr error
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*domain.ExtractionJob)}
}

func (m *mockJobRepo) Create(job *domain.ExtractionJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockJobRepo) Update(job *domain.ExtractionJob) error {
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockJobRepo) Delete(id string) error {
	if _, ok := m.jobs[id]; !ok {
		return errors.New("not found")
	}
	delete(m.jobs, id)
	return nil
}

func (m *mockJobRepo) FindByID(id string) (*domain.ExtractionJob, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, errors.New("not found")
}

func (m *mockJobRepo) FindByStatus(status domain.JobStatus) ([]*domain.ExtractionJob, error) {
	var out []*domain.ExtractionJob
	for _, j := range m.jobs {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) FindAll(filters map[string]interface{}) ([]*domain.ExtractionJob, error) {
	var out []*domain.ExtractionJob
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (m *mockJobRepo) Count() (int64, error) {
	return int64(len(m.jobs)), nil
}

func (m *mockJobRepo) GetStats() (*domain.JobStats, error) {
	stats := &domain.JobStats{Total: int64(len(m.jobs))}
	for _, j := range m.jobs {
		switch j.Status {
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// mockExtractor implements domain.AudioExtractor for testing
type mockExtractor struct {
	info        *domain.MediaInfo
	infoErr     error
	infoCalls   int
	result      *domain.DownloadResult
	downloadErr error
	lastRequest domain.DownloadRequest
	outputDir   string
	available   bool
}

func (m *mockExtractor) GetInfo(ctx context.Context, url string) (*domain.MediaInfo, error) {
	m.infoCalls++
	return m.info, m.infoErr
}

func (m *mockExtractor) DownloadAudio(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	m.lastRequest = req
	return m.result, m.downloadErr
}

func (m *mockExtractor) OutputPath() string { return m.outputDir }

func (m *mockExtractor) SetOutputPath(path string) error {
	m.outputDir = path
	return nil
}

func (m *mockExtractor) IsAvailable(ctx context.Context) bool { return m.available }

func (m *mockExtractor) Version(ctx context.Context) (string, error) {
	if !m.available {
		return "", errors.New("not installed")
	}
	return "2024.08.06", nil
}

// mockCache implements domain.InfoCache for testing
type mockCache struct {
	entries map[string]*domain.MediaInfo
	getErr  error
}

func (m *mockCache) Get(ctx context.Context, url string) (*domain.MediaInfo, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[url], nil
}

func (m *mockCache) Set(ctx context.Context, url string, info *domain.MediaInfo) error {
	m.entries[url] = info
	return nil
}

type recordingEvents struct {
	events []string
	errors []string
}

func (r *recordingEvents) LogExtractEvent(event string, fields ...zap.Field) {
	r.events = append(r.events, event)
}

func (r *recordingEvents) LogAppError(msg string, fields ...zap.Field) {
	r.errors = append(r.errors, msg)
}

func successResult() *domain.DownloadResult {
	return &domain.DownloadResult{
		Success:  true,
		Title:    "Song",
		FilePath: "/music/Song.mp3",
		FileName: "Song.mp3",
		Format:   "mp3",
		Quality:  "320",
	}
}

func TestExtract_RecordsCompletedJob(t *testing.T) {
	repo := newMockJobRepo()
	extractor := &mockExtractor{result: successResult()}
	events := &recordingEvents{}
	svc := NewExtractionService(extractor, repo, nil, nil, events, nil, nil)

	res, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: " https://example.com/v "})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/v", extractor.lastRequest.URL)
	assert.Equal(t, domain.FormatMP3, extractor.lastRequest.Format)
	assert.Equal(t, domain.Quality320, extractor.lastRequest.Quality)

	require.NotEmpty(t, res.JobID)
	assert.Equal(t, "/music/Song.mp3", res.FilePath)

	job := repo.jobs[res.JobID]
	require.NotNil(t, job)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, "Song.mp3", job.FileName)
	assert.Equal(t, []string{"extraction_started", "extraction_completed"}, events.events)
}

func TestExtract_UsesConfiguredDefaults(t *testing.T) {
	extractor := &mockExtractor{result: successResult()}
	config := &domain.ExtractConfig{DefaultFormat: "opus", DefaultQuality: "128"}
	svc := NewExtractionService(extractor, nil, nil, nil, nil, config, nil)

	res, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: "https://example.com/v"})
	require.NoError(t, err)
	assert.Empty(t, res.JobID, "no job id without history")
	assert.Equal(t, domain.FormatOpus, extractor.lastRequest.Format)
	assert.Equal(t, domain.Quality128, extractor.lastRequest.Quality)
}

func TestExtract_RecordsFailedJob(t *testing.T) {
	repo := newMockJobRepo()
	toolErr := &domain.DownloadError{URL: "https://example.com/v", Stderr: "ERROR: ffmpeg not found"}
	extractor := &mockExtractor{downloadErr: toolErr}
	events := &recordingEvents{}
	svc := NewExtractionService(extractor, repo, nil, nil, events, nil, nil)

	_, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: "https://example.com/v"})
	require.Error(t, err)

	var downloadErr *domain.DownloadError
	assert.True(t, errors.As(err, &downloadErr))

	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, domain.StatusFailed, job.Status)
		assert.Equal(t, domain.ErrorKindDownload, job.ErrorKind)
		assert.Contains(t, job.ErrorMessage, "ffmpeg not found")
	}
	assert.Equal(t, []string{"extraction_started", "extraction_failed"}, events.events)
}

func TestExtract_HistoryFailureDoesNotAbort(t *testing.T) {
	repo := newMockJobRepo()
	repo.createErr = errors.New("disk full")
	events := &recordingEvents{}
	svc := NewExtractionService(&mockExtractor{result: successResult()}, repo, nil, nil, events, nil, nil)

	res, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: "https://example.com/v"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"history create failed"}, events.errors)
}

func TestExtract_Validation(t *testing.T) {
	svc := NewExtractionService(&mockExtractor{}, nil, nil, nil, nil, nil, nil)

	tests := []struct {
		name string
		req  domain.DownloadRequest
	}{
		{"empty url", domain.DownloadRequest{URL: "  "}},
		{"bad format", domain.DownloadRequest{URL: "https://example.com/v", Format: "mp4"}},
		{"bad quality", domain.DownloadRequest{URL: "https://example.com/v", Quality: "1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Extract(context.Background(), tt.req)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		})
	}
}

func TestExtract_QualityIgnoredForNonBitrateFormat(t *testing.T) {
	extractor := &mockExtractor{result: successResult()}
	svc := NewExtractionService(extractor, nil, nil, nil, nil, nil, nil)

	_, err := svc.Extract(context.Background(), domain.DownloadRequest{
		URL:     "https://example.com/v",
		Format:  domain.FormatFLAC,
		Quality: "1000",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatFLAC, extractor.lastRequest.Format)
	assert.Equal(t, "0", domain.MapQuality(extractor.lastRequest.Quality, extractor.lastRequest.Format))

	_, err = svc.Extract(context.Background(), domain.DownloadRequest{
		URL:     "https://example.com/v",
		Format:  domain.FormatOpus,
		Quality: "1000",
	})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestInfo_CachesResult(t *testing.T) {
	extractor := &mockExtractor{info: &domain.MediaInfo{ID: "abc", Title: "Song"}}
	cache := &mockCache{entries: map[string]*domain.MediaInfo{}}
	svc := NewExtractionService(extractor, nil, cache, nil, nil, nil, nil)

	first, err := svc.Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	second, err := svc.Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.infoCalls)
	assert.Equal(t, first, second)
}

func TestInfo_CacheErrorFallsThrough(t *testing.T) {
	extractor := &mockExtractor{info: &domain.MediaInfo{Title: "Song"}}
	cache := &mockCache{entries: map[string]*domain.MediaInfo{}, getErr: errors.New("connection refused")}
	svc := NewExtractionService(extractor, nil, cache, nil, nil, nil, nil)

	info, err := svc.Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, "Song", info.Title)
	assert.Equal(t, 1, extractor.infoCalls)
}

func TestInfo_PropagatesFetchError(t *testing.T) {
	extractor := &mockExtractor{infoErr: &domain.FetchError{URL: "u", Stderr: "ERROR: Unsupported URL"}}
	svc := NewExtractionService(extractor, nil, nil, nil, nil, nil, nil)

	_, err := svc.Info(context.Background(), "u")
	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))

	_, err = svc.Info(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestExtract_StoresCachedMetadata(t *testing.T) {
	repo := newMockJobRepo()
	cache := &mockCache{entries: map[string]*domain.MediaInfo{
		"https://example.com/v": {ID: "abc", Title: "Song", Uploader: "Band"},
	}}
	svc := NewExtractionService(&mockExtractor{result: successResult()}, repo, cache, nil, nil, nil, nil)

	res, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: "https://example.com/v"})
	require.NoError(t, err)
	assert.Contains(t, repo.jobs[res.JobID].Metadata, `"uploader":"Band"`)
}

func TestHistoryDisabled(t *testing.T) {
	svc := NewExtractionService(&mockExtractor{}, nil, nil, nil, nil, nil, nil)

	_, err := svc.GetJob("x")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.ListJobs("")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.GetStats()
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	assert.ErrorIs(t, svc.DeleteJob("x"), ErrHistoryDisabled)
}

func TestListJobs(t *testing.T) {
	repo := newMockJobRepo()
	svc := NewExtractionService(&mockExtractor{result: successResult()}, repo, nil, nil, nil, nil, nil)

	_, err := svc.Extract(context.Background(), domain.DownloadRequest{URL: "https://example.com/v"})
	require.NoError(t, err)

	all, err := svc.ListJobs("")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	completed, err := svc.ListJobs(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	_, err = svc.ListJobs("queued")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completed)

	require.NoError(t, svc.DeleteJob(all[0].ID))
	assert.Empty(t, repo.jobs)
}

func TestSetOutputPath(t *testing.T) {
	extractor := &mockExtractor{outputDir: "/music"}
	events := &recordingEvents{}
	svc := NewExtractionService(extractor, nil, nil, nil, events, nil, nil)

	require.NoError(t, svc.SetOutputPath("/podcasts"))
	assert.Equal(t, "/podcasts", svc.OutputPath())
	assert.Equal(t, []string{"output_path_changed"}, events.events)

	assert.ErrorIs(t, svc.SetOutputPath(" "), ErrInvalidRequest)
}

func TestAvailability(t *testing.T) {
	svc := NewExtractionService(&mockExtractor{available: true}, nil, nil, nil, nil, nil, nil)
	assert.True(t, svc.Available(context.Background()))
	version, err := svc.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024.08.06", version)
}

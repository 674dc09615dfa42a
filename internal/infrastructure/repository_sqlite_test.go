package infrastructure

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

func setupTestRepo(t *testing.T) *SQLiteJobRepository {
	t.Helper()
	repo, err := NewSQLiteJobRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newJob(url string, format domain.AudioFormat) *domain.ExtractionJob {
	return domain.NewExtractionJob(domain.DownloadRequest{URL: url, Format: format, Quality: domain.Quality192})
}

func TestJobRepository_CreateAndFind(t *testing.T) {
	repo := setupTestRepo(t)

	job := newJob("https://www.youtube.com/watch?v=abc", domain.FormatMP3)
	require.NoError(t, repo.Create(job))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.URL, found.URL)
	assert.Equal(t, "mp3", found.Format)
	assert.Equal(t, "192", found.Quality)
	assert.Equal(t, domain.StatusProcessing, found.Status)
}

func TestJobRepository_UpdatePersistsOutcome(t *testing.T) {
	repo := setupTestRepo(t)

	job := newJob("https://www.youtube.com/watch?v=abc", domain.FormatMP3)
	require.NoError(t, repo.Create(job))

	job.MarkCompleted(&domain.DownloadResult{
		Success:  true,
		Title:    "Song",
		FilePath: "/music/Song.mp3",
		FileName: "Song.mp3",
	})
	require.NoError(t, repo.Update(job))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status)
	assert.Equal(t, "/music/Song.mp3", found.FilePath)
	assert.NotNil(t, found.CompletedAt)
}

func TestJobRepository_FindByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByID("missing")
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestJobRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)

	job := newJob("https://example.com/a", domain.FormatOpus)
	require.NoError(t, repo.Create(job))

	require.NoError(t, repo.Delete(job.ID))
	_, err := repo.FindByID(job.ID)
	assert.True(t, errors.Is(err, ErrJobNotFound))

	assert.True(t, errors.Is(repo.Delete(job.ID), ErrJobNotFound))
}

func TestJobRepository_FindByStatus(t *testing.T) {
	repo := setupTestRepo(t)

	ok := newJob("https://example.com/ok", domain.FormatMP3)
	ok.MarkCompleted(&domain.DownloadResult{Title: "ok"})
	bad := newJob("https://example.com/bad", domain.FormatMP3)
	bad.MarkFailed(&domain.FetchError{URL: bad.URL, Stderr: "ERROR: Unsupported URL"})
	require.NoError(t, repo.Create(ok))
	require.NoError(t, repo.Create(bad))

	failed, err := repo.FindByStatus(domain.StatusFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, bad.ID, failed[0].ID)
	assert.Equal(t, domain.ErrorKindFetch, failed[0].ErrorKind)
}

func TestJobRepository_FindAllNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)

	older := newJob("https://example.com/1", domain.FormatMP3)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newJob("https://example.com/2", domain.FormatFLAC)
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	jobs, err := repo.FindAll(nil)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, newer.ID, jobs[0].ID)
	assert.Equal(t, older.ID, jobs[1].ID)

	flac, err := repo.FindAll(map[string]interface{}{"format": "flac"})
	require.NoError(t, err)
	require.Len(t, flac, 1)
	assert.Equal(t, newer.ID, flac[0].ID)
}

func TestJobRepository_FindAllRejectsUnknownFilter(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindAll(map[string]interface{}{"1=1; DROP TABLE extraction_jobs; --": "x"})
	assert.Error(t, err)
}

func TestJobRepository_Stats(t *testing.T) {
	repo := setupTestRepo(t)

	processing := newJob("https://example.com/p", domain.FormatMP3)
	done := newJob("https://example.com/d", domain.FormatMP3)
	done.MarkCompleted(&domain.DownloadResult{Title: "d"})
	failed := newJob("https://example.com/f", domain.FormatMP3)
	failed.MarkFailed(&domain.DownloadError{URL: failed.URL})
	for _, j := range []*domain.ExtractionJob{processing, done, failed} {
		require.NoError(t, repo.Create(j))
	}

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

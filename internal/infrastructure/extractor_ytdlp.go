package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/audio-extract-go/internal/domain"
	"go.uber.org/zap"
)

// OutputDirPermissions is owner rwx, group/other rx
const OutputDirPermissions = 0755

// YTDLPExtractor implements domain.AudioExtractor on top of the yt-dlp binary
type YTDLPExtractor struct {
	toolPath        string
	logsDir         string
	infoTimeout     time.Duration
	downloadTimeout time.Duration
	versionTimeout  time.Duration
	runner          CommandRunner
	logger          *zap.Logger

	mu        sync.RWMutex
	outputDir string
}

// NewYTDLPExtractor creates an extractor and ensures the output directory exists.
// An empty ToolPath is resolved once through the Locator.
func NewYTDLPExtractor(config *domain.ExtractConfig, runner CommandRunner, logger *zap.Logger) (*YTDLPExtractor, error) {
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	toolPath := config.ToolPath
	if toolPath == "" {
		toolPath = NewLocator().Locate()
	}

	e := &YTDLPExtractor{
		toolPath:        toolPath,
		logsDir:         config.LogsDir,
		infoTimeout:     durationOr(config.InfoTimeout, domain.DefaultInfoTimeout),
		downloadTimeout: durationOr(config.DownloadTimeout, domain.DefaultDownloadTimeout),
		versionTimeout:  durationOr(config.VersionTimeout, domain.DefaultVersionTimeout),
		runner:          runner,
		logger:          logger,
	}

	if err := e.SetOutputPath(config.OutputDir); err != nil {
		return nil, err
	}

	logger.Debug("yt-dlp extractor ready",
		zap.String("tool", toolPath),
		zap.String("output_dir", config.OutputDir))

	return e, nil
}

// ToolPath returns the resolved executable location
func (e *YTDLPExtractor) ToolPath() string {
	return e.toolPath
}

// OutputPath returns the current output directory
func (e *YTDLPExtractor) OutputPath() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.outputDir
}

// SetOutputPath changes the output directory, creating it with parents if absent
func (e *YTDLPExtractor) SetOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("output directory not configured")
	}
	if err := os.MkdirAll(path, OutputDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	e.mu.Lock()
	e.outputDir = path
	e.mu.Unlock()
	return nil
}

// GetInfo fetches metadata for a single item without downloading it
func (e *YTDLPExtractor) GetInfo(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := e.infoArgs(url)

	result, err := e.run(ctx, e.infoTimeout, args)
	if err != nil {
		e.logger.Warn("yt-dlp metadata query failed",
			zap.String("url", url),
			zap.Error(err))
		return nil, &domain.FetchError{URL: url, Stderr: stderrOf(result), Err: err}
	}

	info, err := parseMediaInfo(result.Stdout)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Stderr: stderrOf(result), Err: err}
	}

	return info, nil
}

// DownloadAudio fetches metadata, extracts audio into the output directory and
// reports the file the tool produced.
func (e *YTDLPExtractor) DownloadAudio(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	req = req.WithDefaults()

	info, err := e.GetInfo(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	baseName := domain.SanitizeFilename(info.Title)
	outputDir := e.OutputPath()
	template := outputTemplate(outputDir, baseName)

	args := e.extractArgs(req, template)

	result, err := e.run(ctx, e.downloadTimeout, args)
	if err != nil {
		e.logger.Warn("yt-dlp extraction failed",
			zap.String("url", req.URL),
			zap.String("format", string(req.Format)),
			zap.Error(err))
		return nil, &domain.DownloadError{URL: req.URL, Stderr: stderrOf(result), Err: err}
	}

	filePath := ResolveOutputFile(outputDir, baseName, string(req.Format))

	e.logger.Info("Audio extracted",
		zap.String("url", req.URL),
		zap.String("title", info.Title),
		zap.String("file", filePath))

	return &domain.DownloadResult{
		Success:  true,
		Title:    info.Title,
		FilePath: filePath,
		FileName: filepath.Base(filePath),
		Format:   string(req.Format),
		Quality:  string(req.Quality),
	}, nil
}

// IsAvailable reports whether the tool answers a version query
func (e *YTDLPExtractor) IsAvailable(ctx context.Context) bool {
	_, err := e.Version(ctx)
	return err == nil
}

// Version returns the tool's trimmed --version output
func (e *YTDLPExtractor) Version(ctx context.Context) (string, error) {
	result, err := e.run(ctx, e.versionTimeout, []string{"--version"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// infoArgs builds the metadata query: one JSON record, never a playlist
func (e *YTDLPExtractor) infoArgs(url string) []string {
	return []string{
		"--dump-json",
		"--no-playlist",
		url,
	}
}

// extractArgs builds the extraction command; the URL is always the last argument
func (e *YTDLPExtractor) extractArgs(req domain.DownloadRequest, template string) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", string(req.Format),
		"--audio-quality", domain.MapQuality(req.Quality, req.Format),
		"--output", template,
		"--no-playlist",
	}

	// Only mp3 gets embedded art and tags
	if req.Format == domain.FormatMP3 {
		args = append(args, "--embed-thumbnail", "--add-metadata")
	}

	return append(args, req.URL)
}

// outputTemplate builds the --output template for baseName in dir. A literal
// '%' would otherwise be read as a template field.
func outputTemplate(dir, baseName string) string {
	return strings.ReplaceAll(filepath.Join(dir, baseName), "%", "%%") + ".%(ext)s"
}

func (e *YTDLPExtractor) run(ctx context.Context, timeout time.Duration, args []string) (*CommandResult, error) {
	cmdLine := ShellEscapeCommand(e.toolPath, args...)
	e.logger.Debug("Running yt-dlp", zap.String("cmd", cmdLine), zap.Duration("timeout", timeout))

	start := time.Now()
	result, err := e.runner.Run(ctx, timeout, e.toolPath, args...)
	e.appendProcessLog(cmdLine, result, err, time.Since(start))

	return result, err
}

// appendProcessLog records the command and its stderr in the daily process log
func (e *YTDLPExtractor) appendProcessLog(cmdLine string, result *CommandResult, runErr error, elapsed time.Duration) {
	if e.logsDir == "" {
		return
	}
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		e.logger.Warn("Failed to create logs directory", zap.Error(err))
		return
	}

	dateStr := time.Now().Format("20060102")
	logPath := filepath.Join(e.logsDir, "ytdlp-"+dateStr+".log")
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		e.logger.Warn("Failed to open process log", zap.Error(err))
		return
	}
	defer file.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "\n=== [%s] ===\n$ %s\n", timestamp, cmdLine)
	if stderr := stderrOf(result); stderr != "" {
		fmt.Fprintf(file, "%s\n", strings.TrimRight(stderr, "\n"))
	}

	status := "SUCCESS"
	if runErr != nil {
		status = "FAILED: " + runErr.Error()
	}
	fmt.Fprintf(file, "[%s] %s (%v)\n=== END ===\n", timestamp, status, elapsed.Round(time.Millisecond))
}

func stderrOf(result *CommandResult) string {
	if result == nil {
		return ""
	}
	return string(result.Stderr)
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

var _ domain.AudioExtractor = (*YTDLPExtractor)(nil)

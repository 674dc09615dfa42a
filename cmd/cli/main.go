package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/audio-extract-go/internal/app"
	"github.com/yourusername/audio-extract-go/internal/domain"
	"github.com/yourusername/audio-extract-go/pkg/logger"
)

var (
	configPath string
	verbose    bool
	rootCmd    = &cobra.Command{
		Use:           "audio-extract",
		Short:         "audio-extract - Save the audio track of online videos",
		Long:          `A command-line tool that fetches metadata for online media and extracts its audio with yt-dlp.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log tool invocations to stderr")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(configCmd)
}

// session is a loaded config plus a runtime built from it
type session struct {
	config  *domain.Config
	runtime *app.Runtime
	events  *logger.MultiLogger
	log     *zap.Logger
}

// openSession loads configuration and wires the service in-process.
// stdout stays clean for command output; logs go to stderr.
func openSession(ctx context.Context) (*session, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console", OutputPath: "stderr"})
	if err != nil {
		return nil, err
	}

	s := &session{config: config, log: log}

	var events app.EventLogger
	if config.Extract.LogsDir != "" {
		s.events, err = logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Extract.LogsDir,
		})
		if err != nil {
			log.Warn("Event logs disabled", zap.Error(err))
		} else {
			events = s.events
		}
	}

	s.runtime, err = app.NewRuntime(ctx, config, log, events)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) service() *app.ExtractionService {
	return s.runtime.Service
}

func (s *session) close() {
	if s.runtime != nil {
		s.runtime.Close()
	}
	if s.events != nil {
		s.events.Close()
	}
	s.log.Sync()
}

// withSession runs fn with an open session and a context cancelled on SIGINT/SIGTERM
func withSession(fn func(ctx context.Context, s *session) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(ctx, s)
}

// describeError adds the tool's stderr to fetch and download failures
func describeError(err error) string {
	var fetchErr *domain.FetchError
	var downloadErr *domain.DownloadError

	switch {
	case domain.IsTimeout(err):
		return fmt.Sprintf("%v\nThe tool did not finish in time.", err)
	case errors.As(err, &fetchErr), errors.As(err, &downloadErr):
		return err.Error()
	case errors.Is(err, app.ErrHistoryDisabled):
		return fmt.Sprintf("%v (set history.enabled in %s)", err, defaultConfigPath())
	default:
		return err.Error()
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "configs", "config.yaml")
	}
	return filepath.Join(home, ".audio-extract", "config.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

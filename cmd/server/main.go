package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/audio-extract-go/api"
	"github.com/yourusername/audio-extract-go/api/handlers"
	"github.com/yourusername/audio-extract-go/api/middleware"
	"github.com/yourusername/audio-extract-go/internal/app"
	"github.com/yourusername/audio-extract-go/pkg/logger"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	daemon     = flag.Bool("daemon", false, "Detach and run in the background")
)

const shutdownTimeout = 30 * time.Second

func main() {
	flag.Parse()

	if *daemon {
		startAsDaemon()
		return
	}

	if err := runServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startAsDaemon re-executes this binary without -daemon in a detached session
func startAsDaemon() {
	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	args := []string{}
	if *configPath != "" {
		args = append(args, "-config", *configPath)
	}

	cmd := exec.Command(execPath, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	setSysProcAttr(cmd)

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", os.DevNull, err)
		os.Exit(1)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server started as daemon (PID: %d)\n", cmd.Process.Pid)
}

func runServer() error {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	var (
		events   app.EventLogger
		multiLog *logger.MultiLogger
		logsDir  string
	)
	if config.Extract.LogsDir != "" {
		multiLog, err = logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Extract.LogsDir,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize event logs: %w", err)
		}
		defer multiLog.Close()
		events = multiLog
		logsDir = multiLog.LogsDir()
	}

	log.Info("Starting audio-extract server",
		zap.String("version", handlers.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("output_dir", config.Extract.OutputDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := app.NewRuntime(ctx, config, log, events)
	if err != nil {
		return err
	}
	defer rt.Close()

	if version, err := rt.Service.Version(ctx); err != nil {
		log.Warn("yt-dlp not available; extractions will fail until it is installed",
			zap.String("tool", rt.Extractor.ToolPath()),
			zap.Error(err))
	} else {
		log.Info("yt-dlp found", zap.String("tool", rt.Extractor.ToolPath()), zap.String("version", version))
	}

	var limiter *middleware.RateLimiter
	if config.RateLimit.RequestsPerSecond > 0 {
		limiter = middleware.NewRateLimiter(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst)
	}

	router := api.SetupRouter(rt.Service, log, api.RouterOptions{
		LogsDir:     logsDir,
		RateLimiter: limiter,
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if multiLog != nil {
		if err := multiLog.Sync(); err != nil {
			log.Warn("Failed to flush event logs", zap.Error(err))
		}
	}

	log.Info("Server exited")
	return nil
}

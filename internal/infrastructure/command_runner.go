package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/yourusername/audio-extract-go/internal/domain"
)

const waitDelay = 2 * time.Second

// CommandResult holds the captured output of a finished process
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner runs an argument vector (never a shell string)
type CommandRunner interface {
	Run(ctx context.Context, timeout time.Duration, binary string, args ...string) (*CommandResult, error)
}

// ExecRunner implements CommandRunner with os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes binary with args, killing it once timeout elapses.
// A timeout is reported as an error wrapping domain.ErrTimeout; a non-zero
// exit as an error wrapping *exec.ExitError. Output is captured either way.
func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, binary string, args ...string) (*CommandResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// yt-dlp spawns ffmpeg; don't wait forever on pipes a killed child left open
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode(cmd, err),
	}

	return result, runError(ctx, binary, timeout, err)
}

// runError maps the outcome of cmd.Run onto the caller-facing error.
// A clean exit counts as success even if the deadline passed right after it.
func runError(ctx context.Context, binary string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", domain.ErrTimeout, timeout)
	}
	return fmt.Errorf("%s failed: %w", binary, err)
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return 0
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout is wrapped by FetchError and DownloadError when the tool exceeded its time bound
var ErrTimeout = errors.New("external tool timed out")

// FetchError is returned when the metadata query fails
type FetchError struct {
	URL    string
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	return formatToolError("Failed to fetch info", e.Stderr, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DownloadError is returned when the extraction run fails
type DownloadError struct {
	URL    string
	Stderr string
	Err    error
}

func (e *DownloadError) Error() string {
	return formatToolError("Download failed", e.Stderr, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by the tool exceeding its time bound
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func formatToolError(prefix, stderr string, err error) string {
	stderr = strings.TrimSpace(stderr)
	switch {
	case stderr != "" && err != nil:
		return fmt.Sprintf("%s: %s (%v)", prefix, stderr, err)
	case stderr != "":
		return fmt.Sprintf("%s: %s", prefix, stderr)
	case err != nil:
		return fmt.Sprintf("%s: %v", prefix, err)
	default:
		return prefix
	}
}

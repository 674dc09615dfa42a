package infrastructure

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToolName is the external tool's binary name and the last-resort locator result
const ToolName = "yt-dlp"

// Locator finds the external tool without requiring configuration
type Locator struct {
	// Candidates are probed in order; earlier entries win
	Candidates []string
	lookPath   func(file string) (string, error)
}

// NewLocator creates a locator over the default candidate list
func NewLocator() *Locator {
	return &Locator{
		Candidates: DefaultCandidates(),
		lookPath:   exec.LookPath,
	}
}

// DefaultCandidates returns the system, per-user and bundled locations, in priority order
func DefaultCandidates() []string {
	candidates := []string{
		"/usr/local/bin/" + ToolName,
		"/usr/bin/" + ToolName,
		"/opt/homebrew/bin/" + ToolName,
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "bin", ToolName))
	}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "bin", ToolName))
	}

	return candidates
}

// Locate returns a usable path to the tool. It never fails: when neither a
// candidate nor the PATH search yields anything, the bare tool name is returned
// and resolution is left to the OS at invocation time.
func (l *Locator) Locate() string {
	for _, candidate := range l.Candidates {
		if isExecutableFile(candidate) {
			return candidate
		}
	}

	lookPath := l.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(ToolName); err == nil {
		if path = strings.TrimSpace(path); path != "" {
			return path
		}
	}

	return ToolName
}

// isExecutableFile checks that path is a regular file with an executable bit set
func isExecutableFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

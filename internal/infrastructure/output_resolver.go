package infrastructure

import (
	"os"
	"path/filepath"
	"strings"
)

// Extensions the tool leaves behind for unfinished work
var partialExtensions = []string{".part", ".ytdl", ".temp"}

// ResolveOutputFile recovers the file the tool produced for baseName.
//
// The exact <dir>/<baseName>.<expectedExt> wins when it exists. Otherwise the
// most recently modified <baseName>.* in dir is returned, skipping the tool's
// unfinished .part, .ytdl and .temp files. With no match, the
// exact path is returned anyway so callers hit a not-found later instead of an
// error here.
//
// Two concurrent extractions whose titles sanitize to the same base name race
// on this lookup and either may be handed the other's file.
func ResolveOutputFile(dir, baseName, expectedExt string) string {
	expected := filepath.Join(dir, baseName+"."+expectedExt)
	if fileExists(expected) {
		return expected
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return expected
	}

	prefix := baseName + "."
	newest := ""
	var newestMod int64

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || isPartialFile(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if newest == "" || mod > newestMod {
			newest = filepath.Join(dir, name)
			newestMod = mod
		}
	}

	if newest == "" {
		return expected
	}
	return newest
}

func isPartialFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, partial := range partialExtensions {
		if ext == partial {
			return true
		}
	}
	return false
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "My Song", "My Song"},
		{"colon and slash", "My: Song/Title", "My Song Title"},
		{"all illegal chars", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"whitespace runs", "  lots \t of\n\nspace  ", "lots of space"},
		{"only illegal chars", `<>:"/\|?*`, "download"},
		{"empty", "", "download"},
		{"only whitespace", " \t\n ", "download"},
		{"unicode kept", "Café, Déjà vu", "Café, Déjà vu"},
		{"vertical tabs", "My\v\vSong \v Title", "My Song Title"},
		{"no-break spaces", "My\u00a0\u00a0Song", "My Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_Properties(t *testing.T) {
	inputs := []string{
		"",
		"a",
		`<<<>>>:::"""///\\\|||???***`,
		strings.Repeat("x", 500),
		strings.Repeat("ab  ", 100),
		strings.Repeat("é", 150),
		"  leading and trailing  ",
		"mixed / separators \\ and | pipes ? and * stars",
		"\vtab\v\v runs\f\u00a0",
	}

	for _, input := range inputs {
		out := SanitizeFilename(input)

		assert.NotEmpty(t, out)
		assert.LessOrEqual(t, len(out), MaxFilenameLength)
		assert.False(t, strings.ContainsAny(out, `<>:"/\|?*`), "illegal char in %q", out)
		assert.NotContains(t, out, "  ")
		assert.Equal(t, strings.TrimSpace(out), out)
	}
}

func TestSanitizeFilename_TruncatesByBytes(t *testing.T) {
	out := SanitizeFilename(strings.Repeat("x", 300))
	assert.Len(t, out, MaxFilenameLength)

	// 2-byte runes: the cut lands on a byte boundary, not a rune boundary
	out = SanitizeFilename("x" + strings.Repeat("é", 150))
	assert.Len(t, out, MaxFilenameLength)
}

func TestMapQuality(t *testing.T) {
	tests := []struct {
		quality  QualityTier
		format   AudioFormat
		expected string
	}{
		{"128", FormatMP3, "128K"},
		{"192", FormatMP3, "192K"},
		{"256", FormatM4A, "256K"},
		{"320", FormatMP3, "320K"},
		{"320", FormatOpus, "320K"},
		{"128", FormatAAC, "128K"},
		{"999", FormatMP3, "192K"},
		{"", FormatOpus, "192K"},
		{"320", FormatWAV, "0"},
		{"128", FormatFLAC, "0"},
		{"999", FormatBest, "0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format)+"_"+string(tt.quality), func(t *testing.T) {
			assert.Equal(t, tt.expected, MapQuality(tt.quality, tt.format))
		})
	}
}

func TestDownloadRequest_WithDefaults(t *testing.T) {
	req := DownloadRequest{URL: "https://example.com/v"}.WithDefaults()
	assert.Equal(t, FormatMP3, req.Format)
	assert.Equal(t, Quality320, req.Quality)

	req = DownloadRequest{URL: "https://example.com/v", Format: FormatOpus, Quality: Quality128}.WithDefaults()
	assert.Equal(t, FormatOpus, req.Format)
	assert.Equal(t, Quality128, req.Quality)
}

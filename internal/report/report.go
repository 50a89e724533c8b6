// Package report renders profiling summaries as standalone HTML documents.
//
// The document embeds its own stylesheet and has no external assets, so
// the same bytes can be shown in an iframe or saved to disk.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/profiler/internal/profile"
)

// DownloadName is the file name offered when the report is downloaded.
const DownloadName = "data_profile_report.html"

// ContentType is the media type of rendered reports.
const ContentType = "text/html; charset=utf-8"

// Theme selects the report palette. It never changes the statistics.
type Theme string

const (
	ThemeStandard Theme = "standard"
	ThemeDark     Theme = "dark"   // dark background, blue accent
	ThemeOrange   Theme = "orange" // light background, orange accent
)

// Themes lists the supported themes in display order.
var Themes = []Theme{ThemeStandard, ThemeDark, ThemeOrange}

// ParseTheme maps a user value to a Theme. Unknown or empty values give
// ThemeStandard.
func ParseTheme(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark
	case ThemeOrange:
		return ThemeOrange
	}
	return ThemeStandard
}

// Label is the human-readable theme name.
func (t Theme) Label() string {
	switch t {
	case ThemeDark:
		return "Dark"
	case ThemeOrange:
		return "Orange"
	}
	return "Standard"
}

// Render produces the complete HTML document for s.
func Render(ctx context.Context, s *profile.Summary, theme Theme) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("render report: nil summary")
	}
	var buf bytes.Buffer
	if err := Document(s, ParseTheme(string(theme))).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

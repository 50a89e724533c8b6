package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/profiler/internal/report"
)

func TestSidebar_EscapesThemeValues(t *testing.T) {
	var buf strings.Builder
	d := PageData{FileName: "a.csv", Theme: report.Theme(`"><script>`)}
	require.NoError(t, Sidebar(d).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `name="theme" value="&#34;&gt;&lt;script&gt;"`)
	assert.NotContains(t, html, "<script>")
	for _, th := range report.Themes {
		assert.Contains(t, html, `type="radio" name="theme" value="`+string(th)+`"`)
	}
}

func TestSidebar_EscapesFileAndSheetNames(t *testing.T) {
	var buf strings.Builder
	d := PageData{
		FileName: "<b>.xlsx",
		Sheets:   []string{"One", `Two"<i>`},
		Sheet:    "One",
		Theme:    report.ThemeStandard,
	}
	require.NoError(t, Sidebar(d).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "&lt;b&gt;.xlsx")
	assert.Contains(t, html, `<option value="Two&#34;&lt;i&gt;">`)
	assert.NotContains(t, html, "<b>")
	assert.NotContains(t, html, "<i>")
}

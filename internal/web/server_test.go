package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/profiler/internal/config"
	"github.com/JonMunkholm/profiler/internal/core"
	"github.com/JonMunkholm/profiler/internal/report"
)

const salesCSV = "region,units,revenue\nnorth,10,100\nsouth,20,210\neast,30,290\n"

var reportLink = regexp.MustCompile(`src="/report/([0-9a-f-]+)"`)

func newTestServer(t *testing.T, env map[string]string) *Server {
	t.Helper()
	if env == nil {
		env = map[string]string{"RATE_LIMIT_ENABLED": "false"}
	}
	cfg, err := config.LoadFrom(config.MapLookup(env))
	require.NoError(t, err)

	svc := core.NewService(core.ServiceConfig{MaxConcurrent: 2, MaxCachedReports: 4}, nil)
	srv := NewServer(svc, cfg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

// browser keeps the session cookie between requests like a real client.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, srv *Server) *browser {
	return &browser{t: t, handler: srv.Router()}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			b.cookies = []*http.Cookie{c}
		}
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) upload(target, name string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()
	body, contentType := multipartBody(b.t, name, content, fields)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return b.do(req)
}

func multipartBody(t *testing.T, name string, content []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Orders"))
	require.NoError(t, f.SetSheetRow("Orders", "A1", &[]any{"id", "amount"}))
	require.NoError(t, f.SetSheetRow("Orders", "A2", &[]any{1, 9.5}))
	require.NoError(t, f.SetSheetRow("Orders", "A3", &[]any{2, 12.25}))

	_, err := f.NewSheet("Cities")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Cities", "A1", &[]any{"city", "population"}))
	require.NoError(t, f.SetSheetRow("Cities", "A2", &[]any{"Oslo", 709000}))
	require.NoError(t, f.SetSheetRow("Cities", "A3", &[]any{"Bergen", 291000}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func reportID(t *testing.T, page string) string {
	t.Helper()
	m := reportLink.FindStringSubmatch(page)
	require.Len(t, m, 2, "page has no report frame")
	return m[1]
}

func TestIndex_IdleShowsInfo(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Data Profiler</h1>")
	assert.Contains(t, body, "Upload your data from the left sidebar to generate a profiling report.")
	assert.NotContains(t, body, "<iframe")
	assert.NotContains(t, body, "Generate minimal report?")

	require.Len(t, b.cookies, 1)
	assert.True(t, b.cookies[0].HttpOnly)
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
}

func TestUpload_RendersInlineReportAndDownload(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/upload", "sales.csv", []byte(salesCSV), map[string]string{"minimal": "on", "theme": "dark"})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.Equal(t, "/?minimal=on&theme=dark", location)

	page := b.get(location)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, `height="1000"`)
	assert.Contains(t, body, `scrolling="yes"`)
	assert.Contains(t, body, "Download full report (HTML)")
	assert.Contains(t, body, "sales.csv")
	assert.Contains(t, body, `name="minimal" value="on" checked`)
	assert.Contains(t, body, `value="dark" checked`)
	assert.NotContains(t, body, "Select sheet", "CSV files have no sheets")

	id := reportID(t, body)
	inline := b.get("/report/" + id)
	require.Equal(t, http.StatusOK, inline.Code)
	assert.Equal(t, report.ContentType, inline.Header().Get("Content-Type"))
	assert.Empty(t, inline.Header().Get("Content-Disposition"))

	download := b.get("/report/" + id + "/download")
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, report.ContentType, download.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="data_profile_report.html"`, download.Header().Get("Content-Disposition"))
	assert.Equal(t, inline.Body.Bytes(), download.Body.Bytes())
	assert.True(t, strings.HasPrefix(download.Body.String(), "<!DOCTYPE html>"))
}

func TestUpload_RejectsUnsupportedExtension(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/upload", "sales.csv", []byte(salesCSV), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.upload("/upload", "data.json", []byte(`{"a":1}`), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please upload only .csv or .xlsx files.")
	assert.Contains(t, body, "FILE006")
	assert.NotContains(t, body, "<iframe")

	// The rejected upload replaced the previous one.
	idle := b.get("/")
	assert.Contains(t, idle.Body.String(), "Upload your data from the left sidebar")
	assert.NotContains(t, idle.Body.String(), "sales.csv")
}

func TestUpload_UppercaseExtensionAccepted(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/upload", "SALES.CSV", []byte(salesCSV), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestUpload_RejectsLargeFile(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))
	big := bytes.Repeat([]byte("a\n"), 11*1024*1024/2)

	rec := b.upload("/upload", "big.csv", big, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maximum allowed file size is 10 MB, but received 11.00 MB.")
}

func TestUpload_MissingFile(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := b.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE004")
}

func TestIndex_WorkbookSheetSelection(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/upload", "book.xlsx", workbook(t), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	first := b.get(rec.Header().Get("Location"))
	require.Equal(t, http.StatusOK, first.Code)
	body := first.Body.String()
	assert.Contains(t, body, "Select sheet")
	assert.Contains(t, body, `<option value="Orders" selected>`)

	second := b.get("/?sheet=Cities")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `<option value="Cities" selected>`)

	html := b.get("/report/" + reportID(t, second.Body.String())).Body.String()
	assert.Contains(t, html, "population")
	assert.NotContains(t, html, "amount", "sheets are never merged")

	missing := b.get("/?sheet=Nope")
	assert.Equal(t, http.StatusUnprocessableEntity, missing.Code)
	assert.Contains(t, missing.Body.String(), "FILE003")
}

func TestIndex_LoadFailureShowsError(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/upload", "bad.csv", []byte("a,b\n1,2,3\n"), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := b.get("/")

	assert.Equal(t, http.StatusUnprocessableEntity, page.Code)
	assert.Contains(t, page.Body.String(), `role="alert"`)
	assert.NotContains(t, page.Body.String(), "<iframe")
}

func TestReport_ScopedToSession(t *testing.T) {
	srv := newTestServer(t, nil)
	owner := newBrowser(t, srv)
	other := newBrowser(t, srv)

	owner.upload("/upload", "sales.csv", []byte(salesCSV), nil)
	id := reportID(t, owner.get("/").Body.String())

	rec := other.get("/report/" + id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SES002")

	rec = other.get("/report/" + id + "/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIProfile(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/api/profile", "sales.csv", []byte(salesCSV), map[string]string{"minimal": "true"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ReportID    string `json:"report_id"`
		DownloadURL string `json:"download_url"`
		Summary     struct {
			Minimal bool `json:"minimal"`
			Dataset struct {
				Rows    int `json:"rows"`
				Columns int `json:"columns"`
			} `json:"dataset"`
			Correlations []json.RawMessage `json:"correlations"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReportID)
	assert.Equal(t, 3, resp.Summary.Dataset.Rows)
	assert.Equal(t, 3, resp.Summary.Dataset.Columns)
	assert.Empty(t, resp.Summary.Correlations)

	download := b.get(resp.DownloadURL)
	assert.Equal(t, http.StatusOK, download.Code)
}

func TestAPIProfile_RejectionIsJSON(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	rec := b.upload("/api/profile", "notes.txt", []byte("hello"), nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE006", resp.Code)
	assert.Equal(t, "Please upload only .csv or .xlsx files.", resp.Message)
}

func TestAPIRuns(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))
	b.upload("/upload", "sales.csv", []byte(salesCSV), nil)
	b.get("/")
	b.upload("/upload", "data.json", []byte("{}"), nil)

	rec := b.get("/api/runs?limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Runs []core.RunRecord `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 2)
	assert.Equal(t, core.RunRejected, resp.Runs[0].Status)
	assert.Equal(t, "FILE006", resp.Runs[0].ErrorCode)
	assert.Equal(t, core.RunRendered, resp.Runs[1].Status)
	assert.Equal(t, 3, resp.Runs[1].Rows)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"max_concurrent":2`)
}

func TestUpload_RateLimited(t *testing.T) {
	srv := newTestServer(t, map[string]string{"RATE_LIMIT_UPLOAD": "1"})
	b := newBrowser(t, srv)

	first := b.upload("/upload", "sales.csv", []byte(salesCSV), nil)
	second := b.upload("/upload", "sales.csv", []byte(salesCSV), nil)

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, b.get("/healthz").Code, "page routes use the general limit")
}

func TestAPIProfile_OverflowingColumnIsValidJSON(t *testing.T) {
	b := newBrowser(t, newTestServer(t, nil))

	csv := "huge,wide\n1e308,-1e308\n1e308,1e308\n"
	rec := b.upload("/api/profile", "big.csv", []byte(csv), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Summary struct {
			Columns []struct {
				Name    string `json:"name"`
				Numeric struct {
					Mean      *float64 `json:"mean"`
					Sum       *float64 `json:"sum"`
					Histogram []struct {
						Count int `json:"count"`
					} `json:"histogram"`
				} `json:"numeric"`
			} `json:"columns"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summary.Columns, 2)
	assert.Nil(t, resp.Summary.Columns[0].Numeric.Mean)
	assert.Nil(t, resp.Summary.Columns[0].Numeric.Sum)

	total := 0
	for _, bin := range resp.Summary.Columns[1].Numeric.Histogram {
		total += bin.Count
	}
	assert.Equal(t, 2, total)
}

func TestWriteJSON_EncodeFailureIs500(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ERR000", resp.Code)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   slog.Level
	}{
		{"rejection", core.ErrUnsupportedFormat, http.StatusBadRequest, slog.LevelWarn},
		{"missing report", core.ErrReportNotFound, http.StatusNotFound, slog.LevelWarn},
		{"unmapped client error", errors.New("something odd"), http.StatusBadRequest, slog.LevelError},
		{"server fault", core.ErrTooManyProfiles, http.StatusServiceUnavailable, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := logLevel(tt.err, tt.status); got != tt.want {
				t.Errorf("logLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/profiler/internal/core"
	"github.com/JonMunkholm/profiler/internal/logging"
	"github.com/JonMunkholm/profiler/internal/profile"
	"github.com/JonMunkholm/profiler/internal/report"
	"github.com/JonMunkholm/profiler/internal/web/templates"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 200
)

// handleIndex renders the main page. With an upload in the session it runs
// the profiler using the options from the query string.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	opts := parseRunOptions(r.URL.Query())

	data := templates.PageData{Minimal: opts.Minimal, Theme: opts.Theme, Sheet: opts.Sheet}
	u, ok := sess.Current()
	if !ok {
		s.renderPage(w, r, data, http.StatusOK)
		return
	}
	data.FileName = u.File.Name
	data.FileSizeMB = u.SizeMB()
	data.Sheets = u.Sheets

	rep, err := s.service.Run(r.Context(), sess, opts)
	if err != nil {
		status := statusFor(err)
		data.Error = alertFor(r, err, status)
		s.renderPage(w, r, data, status)
		return
	}
	data.Sheet = rep.Sheet
	data.ReportID = rep.ID
	s.renderPage(w, r, data, http.StatusOK)
}

// handleUpload replaces the session's file and redirects to the report view,
// keeping the minimal and theme options. Rejected files render the page
// with the rejection message.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	file, err := s.readUpload(w, r)
	if err == nil {
		_, err = s.service.Receive(r.Context(), sess, file)
	}
	opts := parseRunOptions(r.PostForm)
	if err != nil {
		status := statusFor(err)
		data := templates.PageData{Minimal: opts.Minimal, Theme: opts.Theme}
		data.Error = alertFor(r, err, status)
		s.renderPage(w, r, data, status)
		return
	}

	q := url.Values{}
	if opts.Minimal {
		q.Set("minimal", "on")
	}
	q.Set("theme", string(opts.Theme))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// handleReport serves the report HTML for the inline frame.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.Report(sessionFrom(r.Context()), chi.URLParam(r, "reportID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeReport(w, rep)
}

// handleDownload serves the same bytes as handleReport as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.Report(sessionFrom(r.Context()), chi.URLParam(r, "reportID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DownloadName))
	writeReport(w, rep)
	logging.FromContext(r.Context()).Debug("report downloaded", "report_id", rep.ID)
}

func writeReport(w http.ResponseWriter, rep *core.ProfileReport) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.HTML)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.HTML)
}

// ProfileResponse is the JSON body of POST /api/profile.
type ProfileResponse struct {
	ReportID    string           `json:"report_id"`
	FileName    string           `json:"file_name"`
	Sheet       string           `json:"sheet,omitempty"`
	Sheets      []string         `json:"sheets,omitempty"`
	ReportURL   string           `json:"report_url"`
	DownloadURL string           `json:"download_url"`
	Summary     *profile.Summary `json:"summary"`
}

// handleProfileAPI uploads and profiles in one call. The report is kept in
// the caller's session so the returned URLs work with the session cookie.
func (s *Server) handleProfileAPI(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	file, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if _, err := s.service.Receive(r.Context(), sess, file); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	rep, err := s.service.Run(r.Context(), sess, parseRunOptions(r.PostForm))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	page := templates.PageData{ReportID: rep.ID}
	writeJSON(w, http.StatusOK, ProfileResponse{
		ReportID:    rep.ID,
		FileName:    rep.FileName,
		Sheet:       rep.Sheet,
		Sheets:      rep.Sheets,
		ReportURL:   page.ReportURL(),
		DownloadURL: page.DownloadURL(),
		Summary:     rep.Summary,
	})
}

// handleRuns lists recent run metadata, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultRunsLimit)
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}
	runs, err := s.service.RecentRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []core.RunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleHealth reports liveness and profiling capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"profiles": s.service.Limiter().Status(),
	})
}

// readUpload reads the multipart "file" field. The transport cap is
// applied here; the 10 MB file rule is left to validation so the user sees
// the size they sent. At most one byte past that ceiling is buffered.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxRequestSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return core.UploadedFile{}, err
		}
		return core.UploadedFile{}, fmt.Errorf("%w: %w", core.ErrNoFile, err)
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return core.UploadedFile{}, fmt.Errorf("%w: %w", core.ErrNoFile, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, core.MaxFileSize+1))
	if err != nil {
		return core.UploadedFile{}, fmt.Errorf("read upload: %w", err)
	}
	return core.UploadedFile{Name: header.Filename, Size: header.Size, Content: content}, nil
}

// parseRunOptions reads minimal, theme and sheet from a query or form.
func parseRunOptions(v url.Values) core.RunOptions {
	return core.RunOptions{
		Minimal: parseBool(v.Get("minimal")),
		Theme:   report.ParseTheme(v.Get("theme")),
		Sheet:   v.Get("sheet"),
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data templates.PageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render page", "error", err)
	}
}

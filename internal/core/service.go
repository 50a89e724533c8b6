package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/profiler/internal/profile"
)

// ServiceConfig tunes a Service. Zero values fall back to defaults.
type ServiceConfig struct {
	MaxConcurrent    int
	MaxWait          time.Duration
	SessionTTL       time.Duration
	MaxCachedReports int
	Profile          profile.Options // TopValues, HistogramBins and SampleRows
}

// DefaultSessionTTL is how long an idle session keeps its upload.
const DefaultSessionTTL = 30 * time.Minute

// Service provides per-session profiling on top of the stateless pipeline.
type Service struct {
	profiler *profile.Profiler
	sessions *SessionStore
	limiter  *ProfileLimiter
	history  HistoryStore
}

// NewService creates a Service. A nil history keeps runs in memory.
func NewService(cfg ServiceConfig, history HistoryStore) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if history == nil {
		history = NewMemoryHistory(DefaultHistorySize)
	}
	return &Service{
		profiler: profile.New(profile.WithDefaults(cfg.Profile)),
		sessions: NewSessionStore(cfg.SessionTTL, cfg.MaxCachedReports),
		limiter:  NewProfileLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		history:  history,
	}
}

// Session returns the session for id, creating one if id is unknown.
// Callers must use the returned session's ID from then on.
func (s *Service) Session(id string) *Session {
	return s.sessions.Ensure(id)
}

// Limiter exposes the profiling limiter for health reporting.
func (s *Service) Limiter() *ProfileLimiter { return s.limiter }

// Receive replaces the session's upload with file. The previous upload and
// its reports are dropped even when file is rejected.
func (s *Service) Receive(ctx context.Context, sess *Session, file UploadedFile) (Upload, error) {
	sess.ClearUpload()

	u, err := accept(file)
	if err != nil {
		status := RunFailed
		if IsRejection(err) {
			status = RunRejected
		}
		s.record(ctx, sess, RunRecord{
			FileName: file.Name,
			FileSize: file.Size,
			Status:   status,
		}, err)
		return Upload{}, err
	}

	sess.SetUpload(u)
	slog.Debug("upload received",
		"session_id", sess.ID,
		"file", file.Name,
		"size_bytes", file.Size,
		"sheets", len(u.Sheets),
	)
	return u, nil
}

// Run profiles the session's current upload. Equal options on an unchanged
// upload return the cached report.
func (s *Service) Run(ctx context.Context, sess *Session, opts RunOptions) (*ProfileReport, error) {
	u, ok := sess.Current()
	if !ok {
		return nil, ErrNoActiveUpload
	}

	opts, err := normalizeOptions(u, opts)
	if err != nil {
		return nil, err
	}

	key := keyFor(u.Checksum, opts)
	if rep, ok := sess.cached(key); ok {
		return rep, nil
	}

	start := time.Now()
	var rep *ProfileReport
	err = s.limiter.Do(ctx, func() error {
		var err error
		rep, err = render(ctx, s.profiler, u, opts)
		return err
	})

	rec := RunRecord{
		FileName: u.File.Name,
		FileSize: u.File.Size,
		Checksum: u.Checksum,
		Sheet:    opts.Sheet,
		Minimal:  opts.Minimal,
		Theme:    string(opts.Theme),
		Duration: time.Since(start),
		Status:   RunRendered,
	}
	if err != nil {
		rec.Status = RunFailed
		s.record(ctx, sess, rec, err)
		return nil, err
	}
	rec.Rows = rep.Summary.Dataset.Rows
	rec.Columns = rep.Summary.Dataset.Columns
	s.record(ctx, sess, rec, nil)

	if !sess.store(key, rep) {
		slog.Debug("upload replaced during run, report not cached", "session_id", sess.ID)
	}
	return rep, nil
}

// Report returns a report rendered in sess.
func (s *Service) Report(sess *Session, id string) (*ProfileReport, error) {
	if rep, ok := sess.Report(id); ok {
		return rep, nil
	}
	return nil, ErrReportNotFound
}

// RecentRuns returns run metadata, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	return s.history.Recent(ctx, limit)
}

// WaitForRuns blocks until in-flight profiling runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// record writes rec to the history. History failures are logged, never
// returned: they must not fail a run.
func (s *Service) record(ctx context.Context, sess *Session, rec RunRecord, runErr error) {
	rec.ID = uuid.NewString()
	rec.SessionID = sess.ID
	rec.CreatedAt = time.Now()
	rec.IPAddress, rec.UserAgent = ClientFromContext(ctx)
	if runErr != nil {
		rec.ErrorCode = MapError(runErr).Code
	}

	// Records outlive the request.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.history.Record(writeCtx, rec); err != nil {
		slog.Warn("record profile run", "error", err, "session_id", sess.ID)
	}

	level := slog.LevelInfo
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "profile run",
		"session_id", sess.ID,
		"file", rec.FileName,
		"status", rec.Status,
		"error_code", rec.ErrorCode,
		"rows", rec.Rows,
		"columns", rec.Columns,
		"minimal", rec.Minimal,
		"duration_ms", rec.Duration.Milliseconds(),
	)
}

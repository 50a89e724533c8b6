package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunStatus is the terminal state of a profiling run.
type RunStatus string

const (
	RunRendered RunStatus = "rendered"
	RunRejected RunStatus = "rejected"
	RunFailed   RunStatus = "failed"
)

// RunRecord is the metadata kept about a run. File contents and reports are
// never recorded.
type RunRecord struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	FileName  string        `json:"file_name"`
	FileSize  int64         `json:"file_size"`
	Checksum  string        `json:"checksum,omitempty"`
	Sheet     string        `json:"sheet,omitempty"`
	Minimal   bool          `json:"minimal"`
	Theme     string        `json:"theme,omitempty"`
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	Status    RunStatus     `json:"status"`
	ErrorCode string        `json:"error_code,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	IPAddress string        `json:"ip_address,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// HistoryStore records run metadata for operators.
type HistoryStore interface {
	Record(ctx context.Context, rec RunRecord) error
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
}

// DefaultHistorySize is the capacity of the in-memory history.
const DefaultHistorySize = 200

// MemoryHistory is a fixed-size ring of the most recent runs.
type MemoryHistory struct {
	mu      sync.RWMutex
	records []RunRecord
	next    int
	full    bool
}

// NewMemoryHistory creates a ring holding up to size records.
func NewMemoryHistory(size int) *MemoryHistory {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &MemoryHistory{records: make([]RunRecord, size)}
}

// Record implements HistoryStore.
func (h *MemoryHistory) Record(_ context.Context, rec RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[h.next] = rec
	h.next = (h.next + 1) % len(h.records)
	if h.next == 0 {
		h.full = true
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := h.next
	if h.full {
		n = len(h.records)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]RunRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.records)) % len(h.records)
		out = append(out, h.records[idx])
	}
	return out, nil
}

// PostgresHistory stores runs in the profile_runs table.
type PostgresHistory struct {
	pool *pgxpool.Pool
}

// NewPostgresHistory wraps pool. Call EnsureSchema once before use.
func NewPostgresHistory(pool *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{pool: pool}
}

const profileRunsSchema = `
CREATE TABLE IF NOT EXISTS profile_runs (
	id          UUID PRIMARY KEY,
	session_id  UUID,
	file_name   TEXT NOT NULL,
	file_size   BIGINT NOT NULL,
	checksum    TEXT,
	sheet       TEXT,
	minimal     BOOLEAN NOT NULL DEFAULT FALSE,
	theme       TEXT,
	row_count   INTEGER NOT NULL DEFAULT 0,
	col_count   INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error_code  TEXT,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	ip_address  TEXT,
	user_agent  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS profile_runs_created_at_idx ON profile_runs (created_at DESC);
`

// EnsureSchema creates the history table if it does not exist.
func (h *PostgresHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.pool.Exec(ctx, profileRunsSchema); err != nil {
		return fmt.Errorf("create profile_runs: %w", err)
	}
	return nil
}

// Record implements HistoryStore.
func (h *PostgresHistory) Record(ctx context.Context, rec RunRecord) error {
	_, err := h.pool.Exec(ctx, `
		INSERT INTO profile_runs (id, session_id, file_name, file_size, checksum, sheet, minimal, theme,
			row_count, col_count, status, error_code, duration_ms, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		toPgUUID(rec.ID), toPgUUID(rec.SessionID), rec.FileName, rec.FileSize,
		toPgText(rec.Checksum), toPgText(rec.Sheet), rec.Minimal, toPgText(rec.Theme),
		rec.Rows, rec.Columns, string(rec.Status), toPgText(rec.ErrorCode),
		rec.Duration.Milliseconds(), toPgText(rec.IPAddress), toPgText(rec.UserAgent),
		pgtype.Timestamptz{Time: rec.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert profile run: %w", err)
	}
	return nil
}

// Recent implements HistoryStore.
func (h *PostgresHistory) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	rows, err := h.pool.Query(ctx, `
		SELECT id, session_id, file_name, file_size, checksum, sheet, minimal, theme,
			row_count, col_count, status, error_code, duration_ms, ip_address, user_agent, created_at
		FROM profile_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query profile runs: %w", err)
	}
	defer rows.Close()

	out := make([]RunRecord, 0)
	for rows.Next() {
		var (
			rec                                     RunRecord
			id, session                             pgtype.UUID
			checksum, sheet, theme, code, ip, agent pgtype.Text
			status                                  string
			durationMs                              int64
			createdAt                               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &session, &rec.FileName, &rec.FileSize, &checksum, &sheet, &rec.Minimal,
			&theme, &rec.Rows, &rec.Columns, &status, &code, &durationMs, &ip, &agent, &createdAt); err != nil {
			return nil, fmt.Errorf("scan profile run: %w", err)
		}
		rec.ID = uuidToString(id)
		rec.SessionID = uuidToString(session)
		rec.Checksum, rec.Sheet, rec.Theme = checksum.String, sheet.String, theme.String
		rec.ErrorCode, rec.IPAddress, rec.UserAgent = code.String, ip.String, agent.String
		rec.Status = RunStatus(status)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = createdAt.Time
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile runs: %w", err)
	}
	return out, nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

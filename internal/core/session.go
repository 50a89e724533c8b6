package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session holds one user's current upload and the reports rendered from
// it. Uploading a new file drops the old file and all of its reports.
type Session struct {
	ID string

	mu         sync.RWMutex
	upload     *Upload
	reports    map[string]*ProfileReport
	cache      map[reportKey]*ProfileReport
	order      []string // report IDs, oldest first
	maxReports int
	lastSeen   time.Time
}

func newSession(id string, maxReports int, now time.Time) *Session {
	return &Session{
		ID:         id,
		reports:    make(map[string]*ProfileReport),
		cache:      make(map[reportKey]*ProfileReport),
		maxReports: maxReports,
		lastSeen:   now,
	}
}

// Upload is an accepted file together with what was learned about it on
// arrival.
type Upload struct {
	File     UploadedFile
	Ext      Extension
	Checksum string
	Sheets   []string // workbook sheets in file order; nil for CSV
}

// SizeMB returns the file size in megabytes.
func (u Upload) SizeMB() float64 { return SizeMB(u.File.Size) }

// SetUpload makes u the session's current upload and drops every report
// rendered from the previous one.
func (s *Session) SetUpload(u Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = &u
	s.dropReportsLocked()
}

// ClearUpload forgets the current upload and its reports.
func (s *Session) ClearUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = nil
	s.dropReportsLocked()
}

func (s *Session) dropReportsLocked() {
	clear(s.reports)
	clear(s.cache)
	s.order = s.order[:0]
}

// Current returns the session's upload, if any.
func (s *Session) Current() (Upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.upload == nil {
		return Upload{}, false
	}
	return *s.upload, true
}

// Report returns a report by ID.
func (s *Session) Report(id string) (*ProfileReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	return r, ok
}

func (s *Session) cached(key reportKey) (*ProfileReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cache[key]
	return r, ok
}

// store keeps r unless the upload changed while it was rendered. The oldest
// reports are evicted beyond maxReports.
func (s *Session) store(key reportKey, r *ProfileReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload == nil || s.upload.Checksum != key.checksum {
		return false
	}
	s.reports[r.ID] = r
	s.cache[key] = r
	s.order = append(s.order, r.ID)

	for s.maxReports > 0 && len(s.order) > s.maxReports {
		oldest := s.order[0]
		s.order = s.order[1:]
		for k, v := range s.cache {
			if v.ID == oldest {
				delete(s.cache, k)
			}
		}
		delete(s.reports, oldest)
	}
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// SessionStore keeps sessions in memory and expires idle ones.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	ttl        time.Duration
	maxReports int
	now        func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl without
// activity and keep at most maxReports rendered reports each.
func NewSessionStore(ttl time.Duration, maxReports int) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		maxReports: maxReports,
		now:        time.Now,
	}
}

// Get returns a live session and marks it active.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(st.now())
	return s, true
}

// Ensure returns the session for id, creating a fresh one with a new ID
// when id is empty, unknown or expired.
func (st *SessionStore) Ensure(id string) *Session {
	if s, ok := st.Get(id); ok {
		return s
	}
	s := newSession(uuid.NewString(), st.maxReports, st.now())
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (st *SessionStore) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
)

const maxNotifications = 20

// Session is the state owned by one browser session. Only the SubmissionService mutates it.
type Session struct {
	id        string
	createdAt time.Time

	mu            sync.Mutex
	lastSeenAt    time.Time
	activeView    models.View
	complaints    []models.AnalyzedComplaint
	submitting    bool
	notifications []models.Notification
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:         id,
		createdAt:  now,
		lastSeenAt: now,
		activeView: models.ViewStudent,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// beginSubmission moves the session from Idle to Submitting. It reports false when a submission is already in flight.
func (s *Session) beginSubmission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// endSubmission returns the session to Idle.
func (s *Session) endSubmission() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

func (s *Session) recordSuccess(c models.AnalyzedComplaint, n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints = append([]models.AnalyzedComplaint{c}, s.complaints...)
	s.activeView = models.ViewAdmin
	s.pushNotification(n)
}

func (s *Session) recordFailure(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushNotification(n)
}

// pushNotification keeps the newest notifications first. Caller holds mu.
func (s *Session) pushNotification(n models.Notification) {
	s.notifications = append([]models.Notification{n}, s.notifications...)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[:maxNotifications]
	}
}

func (s *Session) setView(v models.View) {
	s.mu.Lock()
	s.activeView = v
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeenAt = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeenAt
}

// listComplaints returns a copy of the complaints, newest first.
func (s *Session) listComplaints() []models.AnalyzedComplaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AnalyzedComplaint, len(s.complaints))
	copy(out, s.complaints)
	return out
}

func (s *Session) listNotifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *Session) snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaints := make([]models.AnalyzedComplaint, len(s.complaints))
	copy(complaints, s.complaints)
	notifications := make([]models.Notification, len(s.notifications))
	copy(notifications, s.notifications)
	return models.SessionState{
		SessionID:     s.id,
		ActiveView:    s.activeView,
		IsSubmitting:  s.submitting,
		Complaints:    complaints,
		Notifications: notifications,
		CreatedAt:     s.createdAt,
	}
}

type sessionGauge interface {
	SetActiveSessions(n int)
}

// SessionStore holds every live session in process memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
	gauge    sessionGauge
	logger   *zap.Logger
}

// NewSessionStore builds an empty store. Sessions idle longer than idleTTL are dropped by Sweep.
func NewSessionStore(idleTTL time.Duration, gauge sessionGauge, logger *zap.Logger) *SessionStore {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		gauge:    gauge,
		logger:   logger,
	}
}

// Create registers a fresh session showing the student view.
func (st *SessionStore) Create() *Session {
	now := st.now()
	sess := newSession(uuid.Must(uuid.NewV7()).String(), now)

	st.mu.Lock()
	st.sessions[sess.id] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	st.publish(n)
	return sess
}

// Get returns a live session and marks it as recently used.
func (st *SessionStore) Get(id string) (*Session, error) {
	now := st.now()

	st.mu.Lock()
	sess, ok := st.sessions[id]
	st.mu.Unlock()

	if !ok || now.Sub(sess.idleSince()) > st.idleTTL {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found or expired")
	}
	sess.touch(now)
	return sess, nil
}

// Len reports the number of sessions held, including expired ones not yet swept.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many were removed.
func (st *SessionStore) Sweep(now time.Time) int {
	st.mu.Lock()
	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.idleSince()) > st.idleTTL {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	st.publish(n)
	return removed
}

// Run sweeps on every tick until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := st.Sweep(st.now()); removed > 0 {
				st.logger.Info("expired sessions swept", zap.Int("removed", removed))
			}
		}
	}
}

func (st *SessionStore) publish(n int) {
	if st.gauge != nil {
		st.gauge.SetActiveSessions(n)
	}
}

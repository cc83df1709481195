package backend

import (
	"sync"
	"time"
)

// Per-conversation session state. Everything here is transient: a process
// restart clears the store, which the flow controller surfaces to the user
// as a stale-state notice (a documented limitation, not a bug).

// SessionState is the conversation's position in the download flow.
type SessionState string

const (
	StateIdle           SessionState = "idle"
	StateLinkReceived   SessionState = "link_received"
	StateQualityPending SessionState = "quality_pending"
	StateDownloading    SessionState = "downloading"
	StateDelivered      SessionState = "delivered"
	StateFailed         SessionState = "failed"
)

// Session holds one conversation's transient flow state. The resolved
// metadata is replaced wholesale whenever a new link is processed.
type Session struct {
	State      SessionState
	Resolved   *Resolved
	Quality    Quality
	DemoTracks []DemoTrack // last demo selection shown, indexed by button
	UpdatedAt  time.Time
}

// SessionStore keeps sessions keyed by conversation (chat) id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating an Idle one on first use.
func (s *SessionStore) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{State: StateIdle, UpdatedAt: time.Now()}
		s.sessions[chatID] = sess
	}
	return sess
}

// Update applies fn to the chat's session under the store lock.
func (s *SessionStore) Update(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{State: StateIdle}
		s.sessions[chatID] = sess
	}
	fn(sess)
	sess.UpdatedAt = time.Now()
}

// Snapshot returns a copy of the chat's session, or an Idle zero session
// when none exists. The copy is safe to read without the lock.
func (s *SessionStore) Snapshot(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return *sess
	}
	return Session{State: StateIdle}
}

// Reset returns the chat to Idle and drops any pending metadata.
func (s *SessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &Session{State: StateIdle, UpdatedAt: time.Now()}
}

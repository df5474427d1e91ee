package server

import (
	"sync"
	"time"

	"github.com/hyperifyio/memogen/internal/memo"
)

// Session retention defaults.
const (
	DefaultMaxSessions = 256
	DefaultSessionTTL  = 2 * time.Hour
)

type storedSession struct {
	sess  *memo.Session
	added time.Time
}

// sessionStore keeps sessions in memory. Entries older than ttl are dropped
// on access, and once limit entries are held the oldest is evicted to make
// room for a new one.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	limit    int
	ttl      time.Duration
	now      func() time.Time
}

func newStore(limit int, ttl time.Duration) *sessionStore {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionStore{
		sessions: make(map[string]storedSession),
		limit:    limit,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionStore) set(sess *memo.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.pruneLocked(now)
	if _, ok := s.sessions[sess.ID]; !ok {
		for len(s.sessions) >= s.limit {
			s.evictOldestLocked()
		}
	}
	s.sessions[sess.ID] = storedSession{sess: sess, added: now}
}

func (s *sessionStore) get(id string) (*memo.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(e, s.now()) {
		delete(s.sessions, id)
		return nil, false
	}
	return e.sess, true
}

func (s *sessionStore) expired(e storedSession, now time.Time) bool {
	return now.Sub(e.added) >= s.ttl
}

func (s *sessionStore) pruneLocked(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.added.Before(oldest) {
			oldestID, oldest = id, e.added
		}
	}
	delete(s.sessions, oldestID)
}

package service

import (
	"sync"
	"time"
)

// Sessions keeps one DriverApp per signed-in driver so that loaded state
// survives between requests. Requests without a user get a fresh, unshared
// DriverApp. An entry unused for longer than the idle TTL is dropped on the
// next call to For.
type Sessions struct {
	build func() *DriverApp
	idle  time.Duration
	now   func() time.Time

	mu   sync.Mutex
	apps map[string]*session
}

type session struct {
	app      *DriverApp
	lastSeen time.Time
}

// NewSessions constructs a Sessions registry that creates DriverApps with
// build. idle <= 0 disables expiry. now defaults to time.Now when nil.
func NewSessions(build func() *DriverApp, idle time.Duration, now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{build: build, idle: idle, now: now, apps: make(map[string]*session)}
}

// For returns the DriverApp of userID, creating it on first use.
func (s *Sessions) For(userID string) *DriverApp {
	if userID == "" {
		return s.build()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictIdle(now)
	entry, ok := s.apps[userID]
	if !ok {
		entry = &session{app: s.build()}
		s.apps[userID] = entry
	}
	entry.lastSeen = now
	return entry.app
}

// Forget drops the DriverApp of userID. Handlers call it when a refresh no
// longer resolves the user.
func (s *Sessions) Forget(userID string) {
	s.mu.Lock()
	delete(s.apps, userID)
	s.mu.Unlock()
}

// Len reports how many drivers currently have cached state.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

// evictIdle must be called with s.mu held.
func (s *Sessions) evictIdle(now time.Time) {
	if s.idle <= 0 {
		return
	}
	for id, entry := range s.apps {
		if now.Sub(entry.lastSeen) > s.idle {
			delete(s.apps, id)
		}
	}
}

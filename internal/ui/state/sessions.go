package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Sessions maps session cookies onto per-browser App state.
type Sessions struct {
	mu       sync.Mutex
	apps     map[string]*App
	ttl      time.Duration
	now      func() time.Time
	onChange func(int)
}

// NewSessions constructs an empty session table. onChange, when non-nil, is
// called with the session count after every insert or sweep.
func NewSessions(ttl time.Duration, onChange func(int)) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		apps:     make(map[string]*App),
		ttl:      ttl,
		now:      time.Now,
		onChange: onChange,
	}
}

// Mount starts a fresh App, as a page load does, and returns it with its ID.
// An existing ID is reused so the browser keeps its cookie.
func (s *Sessions) Mount(id string) (string, *App) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	app := NewApp()
	app.touch(s.now())

	s.mu.Lock()
	s.apps[id] = app
	count := len(s.apps)
	s.mu.Unlock()

	s.changed(count)
	return id, app
}

// Get returns the App for id, if it is still live.
func (s *Sessions) Get(id string) (*App, bool) {
	s.mu.Lock()
	app, ok := s.apps[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if s.expired(app) {
		s.remove(id, app)
		return nil, false
	}
	app.touch(s.now())
	return app, true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

// Sweep drops idle sessions that outlived the TTL and returns how many were
// removed. Busy sessions are kept until their request settles.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	removed := 0
	for id, app := range s.apps {
		if s.expired(app) {
			delete(s.apps, id)
			removed++
		}
	}
	count := len(s.apps)
	s.mu.Unlock()

	if removed > 0 {
		s.changed(count)
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) expired(app *App) bool {
	return app.Status() == model.Idle && s.now().Sub(app.LastUsed()) > s.ttl
}

func (s *Sessions) remove(id string, app *App) {
	s.mu.Lock()
	if current, ok := s.apps[id]; ok && current == app {
		delete(s.apps, id)
	}
	count := len(s.apps)
	s.mu.Unlock()
	s.changed(count)
}

func (s *Sessions) changed(count int) {
	if s.onChange != nil {
		s.onChange(count)
	}
}

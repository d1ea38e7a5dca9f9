package server

import (
	"net/http"

	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
)

const sessionCookie = "qr_session"

// mountSession starts a fresh App for this browser, as a page load does.
func (s *server) mountSession(w http.ResponseWriter, r *http.Request) *state.App {
	var previous string
	if c, err := r.Cookie(sessionCookie); err == nil {
		previous = c.Value
	}
	id, app := s.sessions.Mount(previous)
	if id != previous {
		setSessionCookie(w, id)
	}
	return app
}

// currentSession returns the live App for this browser, and whether it was
// already mounted. Expired or unknown sessions are mounted afresh so the
// request still has somewhere to write.
func (s *server) currentSession(w http.ResponseWriter, r *http.Request) (*state.App, bool) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if app, ok := s.sessions.Get(c.Value); ok {
			return app, true
		}
	}
	return s.mountSession(w, r), false
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

package server

import (
	"bytes"
	"net/http"

	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
	"github.com/Its-donkey/qrcode-creator/internal/ui/view"
)

const pageTitle = "QR Code Generator"

type homePageData struct {
	Title string
	Page  view.Page
}

// handleHome mounts a fresh session, loads the gallery once and renders it.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	app := s.mountSession(w, r)
	s.creator.FetchGallery(r.Context(), app)
	s.renderHome(w, r, app, forms.FieldErrors{}, http.StatusOK)
}

// renderHome builds the page from app and consumes its pending notice.
func (s *server) renderHome(w http.ResponseWriter, r *http.Request, app *state.App, errs forms.FieldErrors, status int) {
	page := takePage(app).WithErrors(errs)

	tmpl, ok := s.templates["home"]
	if !ok {
		http.Error(w, "template missing", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", homePageData{Title: pageTitle, Page: page}); err != nil {
		s.logger.FromContext(r.Context()).WithCategory("http").Error("render home", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

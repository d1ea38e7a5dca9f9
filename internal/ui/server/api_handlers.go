package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
	"github.com/Its-donkey/qrcode-creator/internal/ui/view"
)

const maxJSONBody = 64 << 10

type apiResponse struct {
	Page   view.Page `json:"page"`
	Error  string    `json:"error,omitempty"`
	Fields []string  `json:"fields,omitempty"`
}

// handleState serves GET /api/state. The pending notice is left in place.
func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	app, mounted := s.currentSession(w, r)
	if !mounted {
		s.creator.FetchGallery(r.Context(), app)
	}
	s.writeJSON(w, r, http.StatusOK, apiResponse{Page: view.Build(app.Snapshot())})
}

// handleCreateQRCode serves POST /api/qr_codes with a JSON form body.
func (s *server) handleCreateQRCode(w http.ResponseWriter, r *http.Request) {
	app, mounted := s.currentSession(w, r)
	if !mounted {
		s.creator.FetchGallery(r.Context(), app)
	}

	var input model.FormInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiResponse{
			Page:  view.Build(app.Snapshot()),
			Error: "invalid request body",
		})
		return
	}
	previous := app.Form()
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.URL = strings.TrimSpace(input.URL)
	input.PrimaryColor = forms.NormalizeColor(input.PrimaryColor, previous.PrimaryColor)
	input.BackgroundColor = forms.NormalizeColor(input.BackgroundColor, previous.BackgroundColor)

	err := s.creator.SubmitQRCode(r.Context(), app, input)
	status, errs := submissionStatus(err)
	resp := apiResponse{Page: takePage(app).WithErrors(errs)}
	if err != nil {
		resp.Error = err.Error()
		resp.Fields = errs.Fields()
	}
	s.writeJSON(w, r, status, resp)
}

// takePage builds the page and consumes the pending notice.
func takePage(app *state.App) view.Page {
	snap := app.Snapshot()
	snap.Notice = app.TakeNotice()
	return view.Build(snap)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.FromContext(r.Context()).WithCategory("http").Error("failed to encode response", err)
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Its-donkey/qrcode-creator/internal/ui/creator"
	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
)

const (
	actionSubmit  = "submit"
	actionSuggest = "suggest"
)

// parseSubmitForm reads the posted form. Colors that fail to parse keep the
// session's previous value.
func parseSubmitForm(r *http.Request, previous model.FormInput) (model.FormInput, string, error) {
	if err := r.ParseForm(); err != nil {
		return model.FormInput{}, "", err
	}
	input := model.FormInput{
		Name:            strings.TrimSpace(r.Form.Get("name")),
		Description:     strings.TrimSpace(r.Form.Get("description")),
		URL:             strings.TrimSpace(r.Form.Get("url")),
		PrimaryColor:    pickColor(r, "main_color", previous.PrimaryColor),
		BackgroundColor: pickColor(r, "fill_color", previous.BackgroundColor),
	}
	action := strings.TrimSpace(r.Form.Get("action"))
	if action != actionSuggest {
		action = actionSubmit
	}
	return input, action, nil
}

// pickColor resolves a picker. A swatch click only wins when the hex input
// still holds the previous color, so typed values are not overwritten. An
// unchanged color keeps its previous spelling; only new colors are normalized.
func pickColor(r *http.Request, field, previous string) string {
	hex := strings.TrimSpace(r.Form.Get(field))
	swatch := strings.TrimSpace(r.Form.Get(field + "_swatch"))
	chosen := hex
	if swatch != "" && (hex == "" || forms.SameColor(hex, previous)) {
		chosen = swatch
	}
	if forms.SameColor(chosen, previous) {
		return previous
	}
	return forms.NormalizeColor(chosen, previous)
}

// handleSubmit handles POST /submit for both the save and suggest buttons.
func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	app, mounted := s.currentSession(w, r)
	if !mounted {
		s.creator.FetchGallery(r.Context(), app)
	}

	input, action, err := parseSubmitForm(r, app.Form())
	if err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	if action == actionSuggest {
		errs := s.suggest(r.Context(), app, input)
		s.renderHome(w, r, app, errs, http.StatusOK)
		return
	}

	err = s.creator.SubmitQRCode(r.Context(), app, input)
	status, errs := submissionStatus(err)
	s.renderHome(w, r, app, errs, status)
}

// submissionStatus maps a SubmitQRCode outcome onto an HTTP status and the
// fields to highlight.
func submissionStatus(err error) (int, forms.FieldErrors) {
	var verr *forms.ValidationError
	switch {
	case err == nil:
		return http.StatusOK, forms.FieldErrors{}
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Fields
	case errors.Is(err, creator.ErrBusy):
		return http.StatusConflict, forms.FieldErrors{}
	default:
		return http.StatusBadGateway, forms.FieldErrors{}
	}
}

// suggest fills empty name and description fields from the page at the
// entered URL. It never contacts the QR service.
func (s *server) suggest(ctx context.Context, app *state.App, input model.FormInput) forms.FieldErrors {
	target := forms.CanonicalizeURL(input.URL)
	if target == "" {
		app.SetForm(input)
		app.Notify(model.NoticeWarning, model.MessageMissingDetails)
		return forms.FieldErrors{URL: true}
	}
	input.URL = target

	resp := s.lookupMetadata(ctx, target)
	if input.Name == "" {
		input.Name = resp.Title
	}
	if input.Description == "" {
		input.Description = resp.Description
	}
	app.SetForm(input)
	return forms.FieldErrors{}
}

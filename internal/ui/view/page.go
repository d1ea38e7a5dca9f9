// Package view turns a session snapshot into the data the templates render.
package view

import (
	"time"

	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
)

// PreviewMode selects what the preview pane shows.
type PreviewMode string

const (
	PreviewImage       PreviewMode = "image"
	PreviewSpinner     PreviewMode = "spinner"
	PreviewPlaceholder PreviewMode = "placeholder"
)

// Preview pane titles.
const (
	TitleGenerated   = "Your QR Code"
	TitlePlaceholder = "QR code preview"
)

// Page is everything the home template needs.
type Page struct {
	Form           model.FormInput   `json:"form"`
	Pickers        []ColorPicker     `json:"pickers"`
	Preview        Preview           `json:"preview"`
	Cards          []Card            `json:"cards"`
	Notice         *Notice           `json:"notice,omitempty"`
	Status         model.Status      `json:"status"`
	SubmitDisabled bool              `json:"submit_disabled"`
	Errors         forms.FieldErrors `json:"errors"`
}

// ColorPicker is one swatch bar plus hex input.
type ColorPicker struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Swatches []Swatch `json:"swatches"`
}

// Swatch is a palette entry.
type Swatch struct {
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

// Preview describes the right-hand pane.
type Preview struct {
	Mode            PreviewMode `json:"mode"`
	Title           string      `json:"title"`
	Image           string      `json:"image,omitempty"`
	PrimaryColor    string      `json:"primary_color"`
	BackgroundColor string      `json:"background_color"`
}

// Card is one gallery entry.
type Card struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	CreatedAt    string `json:"created_at"`
	CreatedAtISO string `json:"created_at_iso,omitempty"`
}

// Notice is a toast with its auto-close delay.
type Notice struct {
	Level       model.NoticeLevel `json:"level"`
	Message     string            `json:"message"`
	AutoCloseMS int64             `json:"auto_close_ms"`
}

// Build derives the page from a snapshot. It has no side effects.
func Build(snap state.Snapshot) Page {
	page := Page{
		Form: snap.Form,
		Pickers: []ColorPicker{
			picker("main_color", "Primary color", snap.Form.PrimaryColor),
			picker("fill_color", "Background color", snap.Form.BackgroundColor),
		},
		Preview:        buildPreview(snap),
		Cards:          buildCards(snap.Gallery),
		Status:         snap.Status,
		SubmitDisabled: snap.Status == model.Busy,
	}
	if snap.Notice != nil {
		page.Notice = &Notice{
			Level:       snap.Notice.Level,
			Message:     snap.Notice.Message,
			AutoCloseMS: model.NoticeAutoClose.Milliseconds(),
		}
	}
	return page
}

// WithErrors marks the fields that failed validation.
func (p Page) WithErrors(errs forms.FieldErrors) Page {
	p.Errors = errs
	return p
}

func picker(field, label, value string) ColorPicker {
	swatches := make([]Swatch, len(model.Palette))
	for i, color := range model.Palette {
		swatches[i] = Swatch{Color: color, Selected: forms.SameColor(color, value)}
	}
	return ColorPicker{Field: field, Label: label, Value: value, Swatches: swatches}
}

func buildPreview(snap state.Snapshot) Preview {
	preview := Preview{
		Title:           TitlePlaceholder,
		PrimaryColor:    snap.Form.PrimaryColor,
		BackgroundColor: snap.Form.BackgroundColor,
	}
	switch {
	case snap.Image != "":
		preview.Mode = PreviewImage
		preview.Title = TitleGenerated
		preview.Image = snap.Image
	case snap.Status == model.Busy:
		preview.Mode = PreviewSpinner
	default:
		preview.Mode = PreviewPlaceholder
	}
	return preview
}

// Cards are keyed by position; created_at is not guaranteed unique.
func buildCards(records []model.Record) []Card {
	cards := make([]Card, 0, len(records))
	for i, rec := range records {
		card := Card{
			Index:       i,
			Name:        rec.Name,
			Description: rec.Description,
			Image:       rec.Image,
			CreatedAt:   forms.FormatCreatedAt(rec.CreatedAt.Time),
		}
		if raw := rec.CreatedAt.Display(); raw != "" {
			card.CreatedAt = raw
		}
		if !rec.CreatedAt.IsZero() {
			card.CreatedAtISO = rec.CreatedAt.Format(time.RFC3339)
		}
		cards = append(cards, card)
	}
	return cards
}

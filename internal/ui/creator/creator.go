// Package creator drives the QR code form: loading the gallery on mount and
// submitting new codes to the QR service.
package creator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Its-donkey/qrcode-creator/internal/metrics"
	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
	"github.com/Its-donkey/qrcode-creator/logging"
)

// ErrBusy is returned when a submission is already in flight for the session.
var ErrBusy = errors.New("creator: submission already in flight")

// Submission results recorded in metrics.
const (
	ResultSuccess = "success"
	ResultWarning = "warning"
	ResultError   = "error"
	ResultBusy    = "busy"
)

// Backend is the subset of the QR service client the creator needs.
type Backend interface {
	ListQRCodes(ctx context.Context) ([]model.Record, error)
	CreateQRCode(ctx context.Context, payload model.CreateRequest) (model.SubmissionResult, error)
}

// Creator ties the session state to the QR service.
type Creator struct {
	backend Backend
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// New builds a Creator. logger and m may be nil.
func New(backend Backend, logger *logging.Logger, m *metrics.Metrics) *Creator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Creator{backend: backend, logger: logger, metrics: m}
}

// FetchGallery loads the existing codes into app. Failures are logged and the
// gallery is left as it was; the page still renders.
func (c *Creator) FetchGallery(ctx context.Context, app *state.App) {
	start := time.Now()
	records, err := c.backend.ListQRCodes(ctx)
	if err != nil {
		c.logger.FromContext(ctx).
			WithCategory("gallery").
			WithField("error", err.Error()).
			Warn("failed to load QR code gallery")
		return
	}
	app.ReplaceGallery(records)
	c.logger.FromContext(ctx).
		WithCategory("gallery").
		WithFields(map[string]any{
			"count":       len(records),
			"duration_ms": time.Since(start).Milliseconds(),
		}).
		Info("gallery loaded")
}

// SubmitQRCode stores input as the session's form and, when every required
// field is present, asks the QR service to generate a code.
//
// It returns a *forms.ValidationError for incomplete input, ErrBusy when the
// session already has a request in flight, and the backend error otherwise.
// In every case a notice is left on app for the next render.
func (c *Creator) SubmitQRCode(ctx context.Context, app *state.App, input model.FormInput) error {
	app.SetForm(input)
	log := c.logger.FromContext(ctx).WithCategory("submission")

	if err := forms.Validate(input); err != nil {
		app.Notify(model.NoticeWarning, model.MessageMissingDetails)
		c.metrics.CountSubmission(ResultWarning)
		log.WithField("missing", err.Error()).Info("submission rejected")
		return err
	}

	if !app.TryBegin() {
		app.Notify(model.NoticeWarning, model.MessageInFlight)
		c.metrics.CountSubmission(ResultBusy)
		log.Warn("submission refused while another is in flight")
		return ErrBusy
	}
	defer app.Finish()

	result, err := c.backend.CreateQRCode(ctx, model.NewCreateRequest(input))
	if err != nil {
		app.Notify(model.NoticeError, model.MessageFailed)
		c.metrics.CountSubmission(ResultError)
		log.Error("QR code generation failed", err)
		return fmt.Errorf("create qr code: %w", err)
	}

	app.Complete(result)
	app.Notify(model.NoticeSuccess, model.MessageGenerated)
	c.metrics.CountSubmission(ResultSuccess)
	log.WithFields(map[string]any{
		"name":    input.Name,
		"gallery": len(result.AllQRCodes),
	}).Info("QR code generated")
	return nil
}

package state

import (
	"sync"
	"time"

	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
)

// App holds everything one browser session knows: the form, the gallery, the
// last generated image and the idle/busy flag. It is safe for concurrent use.
type App struct {
	mu       sync.RWMutex
	form     model.FormInput
	gallery  []model.Record
	image    string
	status   model.Status
	notice   *model.Notice
	lastUsed time.Time
}

// Snapshot is an immutable copy of App used for rendering.
type Snapshot struct {
	Form    model.FormInput
	Gallery []model.Record
	Image   string
	Status  model.Status
	Notice  *model.Notice
}

// NewApp constructs a session state with the default form colors.
func NewApp() *App {
	return &App{
		form:     model.DefaultFormInput(),
		gallery:  []model.Record{},
		lastUsed: time.Now(),
	}
}

// Snapshot returns a copy of the current state.
//
// Callers can safely modify the returned gallery without affecting the state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	cp := make([]model.Record, len(a.gallery))
	copy(cp, a.gallery)
	var notice *model.Notice
	if a.notice != nil {
		n := *a.notice
		notice = &n
	}
	return Snapshot{
		Form:    a.form,
		Gallery: cp,
		Image:   a.image,
		Status:  a.status,
		Notice:  notice,
	}
}

// Form returns the current form input.
func (a *App) Form() model.FormInput {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.form
}

// SetForm replaces the form input. Allowed while a submission is in flight.
func (a *App) SetForm(in model.FormInput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form = in
	a.lastUsed = time.Now()
}

// Status reports whether a submission is in flight.
func (a *App) Status() model.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// TryBegin flips Idle to Busy. It returns false when the session is already
// Busy, so at most one write request can be in flight.
func (a *App) TryBegin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == model.Busy {
		return false
	}
	a.status = model.Busy
	a.lastUsed = time.Now()
	return true
}

// Finish returns the session to Idle.
func (a *App) Finish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = model.Idle
	a.lastUsed = time.Now()
}

// ReplaceGallery swaps in a new gallery wholesale.
func (a *App) ReplaceGallery(records []model.Record) {
	cp := make([]model.Record, len(records))
	copy(cp, records)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.gallery = cp
}

// Complete stores the outcome of a successful submission in one step so
// readers never observe a new gallery paired with a stale image.
func (a *App) Complete(result model.SubmissionResult) {
	cp := make([]model.Record, len(result.AllQRCodes))
	copy(cp, result.AllQRCodes)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.gallery = cp
	a.image = result.GeneratedQRPNG
}

// Notify records the toast for the next render.
func (a *App) Notify(level model.NoticeLevel, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notice = &model.Notice{Level: level, Message: message}
}

// TakeNotice returns and clears the pending toast.
func (a *App) TakeNotice() *model.Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.notice
	a.notice = nil
	return n
}

// LastUsed reports when the session was last touched.
func (a *App) LastUsed() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastUsed
}

func (a *App) touch(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastUsed = now
}

package creator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/Its-donkey/qrcode-creator/internal/metrics"
	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
	"github.com/Its-donkey/qrcode-creator/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBackend struct {
	mu        sync.Mutex
	list      []model.Record
	listErr   error
	result    model.SubmissionResult
	createErr error
	lists     int
	creates   []model.CreateRequest
	onCreate  func()
}

func (f *fakeBackend) ListQRCodes(ctx context.Context) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.list, f.listErr
}

func (f *fakeBackend) CreateQRCode(ctx context.Context, payload model.CreateRequest) (model.SubmissionResult, error) {
	f.mu.Lock()
	f.creates = append(f.creates, payload)
	hook := f.onCreate
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.result, f.createErr
}

func assertSubmissions(t *testing.T, m *metrics.Metrics, result string) {
	t.Helper()
	expected := `
# HELP qrcode_ui_submissions_total Form submissions by result (success, warning, error, busy)
# TYPE qrcode_ui_submissions_total counter
qrcode_ui_submissions_total{result="` + result + `"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "qrcode_ui_submissions_total"); err != nil {
		t.Fatalf("unexpected submission metrics: %v", err)
	}
}

func validInput() model.FormInput {
	return model.FormInput{
		Name:            "Ada",
		Description:     "Profile link",
		URL:             "https://example.com",
		PrimaryColor:    "#FF6900",
		BackgroundColor: "#f8f8f8",
	}
}

func TestFetchGalleryStoresRecords(t *testing.T) {
	backend := &fakeBackend{list: []model.Record{{Name: "a"}, {Name: "b"}}}
	app := state.NewApp()

	New(backend, nil, nil).FetchGallery(context.Background(), app)

	if backend.lists != 1 {
		t.Fatalf("expected one list request, got %d", backend.lists)
	}
	snap := app.Snapshot()
	if len(snap.Gallery) != 2 || snap.Gallery[1].Name != "b" {
		t.Fatalf("unexpected gallery %+v", snap.Gallery)
	}
}

func TestFetchGalleryFailureLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("test", logging.DEBUG, &buf)
	backend := &fakeBackend{listErr: errors.New("connection refused")}
	app := state.NewApp()

	New(backend, logger, nil).FetchGallery(context.Background(), app)

	snap := app.Snapshot()
	if len(snap.Gallery) != 0 || snap.Notice != nil {
		t.Fatalf("expected empty gallery and no notice, got %+v", snap)
	}
	if !strings.Contains(buf.String(), `"level":"WARN"`) || !strings.Contains(buf.String(), "connection refused") {
		t.Fatalf("expected warning log, got %s", buf.String())
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	cases := map[string]func(*model.FormInput){
		"empty name":             func(in *model.FormInput) { in.Name = "" },
		"whitespace description": func(in *model.FormInput) { in.Description = "   " },
		"empty url":              func(in *model.FormInput) { in.URL = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			backend := &fakeBackend{}
			m := metrics.New()
			app := state.NewApp()
			input := validInput()
			mutate(&input)

			err := New(backend, nil, m).SubmitQRCode(context.Background(), app, input)

			var verr *forms.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(backend.creates) != 0 {
				t.Fatalf("expected no write request, got %d", len(backend.creates))
			}
			snap := app.Snapshot()
			if snap.Status != model.Idle {
				t.Fatalf("expected idle status")
			}
			if snap.Notice == nil || snap.Notice.Level != model.NoticeWarning || snap.Notice.Message != model.MessageMissingDetails {
				t.Fatalf("unexpected notice %+v", snap.Notice)
			}
			if snap.Form != input {
				t.Fatalf("expected form to be kept, got %+v", snap.Form)
			}
			assertSubmissions(t, m, ResultWarning)
		})
	}
}

func TestSubmitSuccessReplacesGalleryAndImage(t *testing.T) {
	app := state.NewApp()
	app.ReplaceGallery([]model.Record{{Name: "stale"}})

	var statusDuringCall model.Status
	backend := &fakeBackend{
		result: model.SubmissionResult{
			AllQRCodes:     []model.Record{{Name: "x"}, {Name: "y"}, {Name: "z"}},
			GeneratedQRPNG: "data:image/png;base64,NEW",
		},
	}
	backend.onCreate = func() { statusDuringCall = app.Status() }

	if err := New(backend, nil, nil).SubmitQRCode(context.Background(), app, validInput()); err != nil {
		t.Fatalf("SubmitQRCode returned error: %v", err)
	}

	if len(backend.creates) != 1 {
		t.Fatalf("expected exactly one write request, got %d", len(backend.creates))
	}
	want := model.CreateRequest{
		Name:        "Ada",
		Description: "Profile link",
		MainColor:   "#FF6900",
		FillColor:   "#f8f8f8",
		URL:         "https://example.com",
	}
	if backend.creates[0] != want {
		t.Fatalf("unexpected payload %+v", backend.creates[0])
	}
	if statusDuringCall != model.Busy {
		t.Fatalf("expected busy during the call, got %v", statusDuringCall)
	}

	snap := app.Snapshot()
	if snap.Status != model.Idle {
		t.Fatal("expected idle after success")
	}
	if len(snap.Gallery) != 3 || snap.Gallery[0].Name != "x" {
		t.Fatalf("unexpected gallery %+v", snap.Gallery)
	}
	if snap.Image != "data:image/png;base64,NEW" {
		t.Fatalf("unexpected image %q", snap.Image)
	}
	if snap.Notice == nil || snap.Notice.Level != model.NoticeSuccess || snap.Notice.Message != model.MessageGenerated {
		t.Fatalf("unexpected notice %+v", snap.Notice)
	}
}

func TestSubmitFailureLeavesStateUnchanged(t *testing.T) {
	app := state.NewApp()
	app.Complete(model.SubmissionResult{
		AllQRCodes:     []model.Record{{Name: "kept"}},
		GeneratedQRPNG: "data:image/png;base64,OLD",
	})
	backend := &fakeBackend{createErr: errors.New("502 bad gateway")}
	m := metrics.New()

	err := New(backend, nil, m).SubmitQRCode(context.Background(), app, validInput())
	if err == nil {
		t.Fatal("expected error")
	}

	snap := app.Snapshot()
	if snap.Status != model.Idle {
		t.Fatal("expected idle after failure")
	}
	if len(snap.Gallery) != 1 || snap.Gallery[0].Name != "kept" || snap.Image != "data:image/png;base64,OLD" {
		t.Fatalf("expected gallery and image unchanged, got %+v", snap)
	}
	if snap.Notice == nil || snap.Notice.Level != model.NoticeError || snap.Notice.Message != model.MessageFailed {
		t.Fatalf("unexpected notice %+v", snap.Notice)
	}
	assertSubmissions(t, m, ResultError)
}

func TestSubmitWhileBusyIsRefused(t *testing.T) {
	app := state.NewApp()
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{result: model.SubmissionResult{GeneratedQRPNG: "img"}}
	backend.onCreate = func() {
		close(entered)
		<-release
	}
	c := New(backend, nil, nil)

	done := make(chan error, 1)
	go func() { done <- c.SubmitQRCode(context.Background(), app, validInput()) }()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first submission never reached the backend")
	}

	if err := c.SubmitQRCode(context.Background(), app, validInput()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if len(backend.creates) != 1 {
		t.Fatalf("expected one write request, got %d", len(backend.creates))
	}
	if app.Status() != model.Idle {
		t.Fatal("expected idle once the first submission settled")
	}
}

// Package server renders the QR code creator and exposes its JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Its-donkey/qrcode-creator/internal/metadata"
	"github.com/Its-donkey/qrcode-creator/internal/metrics"
	"github.com/Its-donkey/qrcode-creator/internal/ui/creator"
	"github.com/Its-donkey/qrcode-creator/internal/ui/state"
	"github.com/Its-donkey/qrcode-creator/logging"
	"github.com/Its-donkey/qrcode-creator/ui"
)

const (
	defaultListen        = "127.0.0.1:4173"
	defaultSweepInterval = time.Minute
	shutdownTimeout      = 5 * time.Second
	maxLoggedBody        = 2048
)

// MetadataFetcher looks up page details for the "Suggest from URL" button.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (*metadata.Metadata, error)
}

// Options configures the UI HTTP server.
type Options struct {
	Listen        string
	TemplatesDir  string
	AssetsDir     string
	SessionTTL    time.Duration
	SweepInterval time.Duration

	Backend  creator.Backend
	Metadata MetadataFetcher
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
}

type server struct {
	templates map[string]*template.Template
	assets    fs.FS
	sessions  *state.Sessions
	creator   *creator.Creator
	metadata  MetadataFetcher
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewHandler wires the routes. The returned Sessions must be swept by the
// caller (Run does this).
func NewHandler(opts Options) (http.Handler, *state.Sessions, error) {
	if opts.Backend == nil {
		return nil, nil, errors.New("server: backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	templates, err := loadTemplates(templateFS(opts.TemplatesDir))
	if err != nil {
		return nil, nil, fmt.Errorf("load templates: %w", err)
	}
	assets, err := assetFS(opts.AssetsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load assets: %w", err)
	}

	sessions := state.NewSessions(opts.SessionTTL, opts.Metrics.SetActiveSessions)
	srv := &server{
		templates: templates,
		assets:    assets,
		sessions:  sessions,
		creator:   creator.New(opts.Backend, logger, opts.Metrics),
		metadata:  opts.Metadata,
		logger:    logger,
		metrics:   opts.Metrics,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", srv.handleHome).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/submit", srv.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/state", srv.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/qr_codes", srv.handleCreateQRCode).Methods(http.MethodPost)
	r.HandleFunc("/api/metadata", srv.handleMetadata).Methods(http.MethodPost)
	r.Handle("/styles.css", srv.assetHandler("styles.css", "text/css; charset=utf-8")).Methods(http.MethodGet, http.MethodHead)
	r.Handle("/submit.js", srv.assetHandler("submit.js", "application/javascript")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	httpLogger := logging.NewHTTPLogger(logger, maxLoggedBody)
	return httpLogger.Middleware(r), sessions, nil
}

// Run serves the UI until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if strings.TrimSpace(opts.Listen) == "" {
		opts.Listen = defaultListen
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}

	handler, sessions, err := NewHandler(opts)
	if err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sessions.Run(sweepCtx, opts.SweepInterval)
	}()
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	httpServer := &http.Server{
		Addr:              opts.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server", "serving QR code creator", map[string]any{
		"url": "http://" + opts.Listen,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func templateFS(dir string) fs.FS {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(ui.Templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

func assetFS(dir string) (fs.FS, error) {
	if strings.TrimSpace(dir) != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(ui.Static, "static")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

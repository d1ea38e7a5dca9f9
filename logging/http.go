package logging

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is echoed on every response handled by HTTPLogger.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen caps incoming request IDs; longer ones are replaced.
const maxRequestIDLen = 64

// HTTPLogger logs HTTP requests and responses.
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
}

// NewHTTPLogger creates a new HTTP logger.
func NewHTTPLogger(logger *Logger, maxBodySize int) *HTTPLogger {
	if maxBodySize == 0 {
		maxBodySize = 10 * 1024
	}
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// responseRecorder captures the status and size for logging.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
		r.ResponseWriter.WriteHeader(status)
	}
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *responseRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Middleware returns an HTTP middleware that tags each request with an ID and
// logs a summary once the handler returns.
func (h *HTTPLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}
		r = r.WithContext(ContextWithRequestID(r.Context(), requestID))

		var requestBody string
		if r.Body != nil && r.ContentLength > 0 && r.ContentLength < int64(h.maxBodySize) && isTextBody(r.Header.Get("Content-Type")) {
			bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, int64(h.maxBodySize)))
			if err == nil {
				requestBody = string(bodyBytes)
				r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		recorder.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Milliseconds()
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"status":      recorder.status,
			"size":        recorder.size,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}
		if requestBody != "" {
			fields["request_body"] = truncate(requestBody, 1000)
		}

		level := INFO
		switch {
		case recorder.status >= 500:
			level = ERROR
		case recorder.status >= 400:
			level = WARN
		}
		if !h.logger.Enabled(level) {
			return
		}
		h.logger.write(Entry{
			Level:     level.String(),
			Category:  "http",
			Message:   fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, recorder.status),
			Fields:    fields,
			RequestID: requestID,
			Duration:  &duration,
		})
	})
}

// validRequestID accepts short IDs made of letters, digits, '-', '_' and '.'.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func isTextBody(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... [truncated]"
}

package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"
)

func TestFetchPrefersOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Plain title</title>
			<meta property="og:title" content="  Open   Graph title ">
			<meta name="description" content="Plain description">
			<meta property="og:description" content="OG description">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	meta, err := NewService(srv.Client(), time.Second, nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if meta.Title != "Open Graph title" || meta.Description != "OG description" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestFetchFallsBackToStandardTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>
				Example Domain
			</title>
			<meta name="description" content="Used in illustrative examples">
		</head></html>`))
	}))
	defer srv.Close()

	meta, err := NewService(srv.Client(), time.Second, nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if meta.Title != "Example Domain" || meta.Description != "Used in illustrative examples" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestFetchRejectsNonHTTPURLs(t *testing.T) {
	svc := NewService(nil, time.Second, nil)
	for _, raw := range []string{"ftp://example.com", "example.com", "mailto:someone@example.com"} {
		if _, err := svc.Fetch(context.Background(), raw); !errors.Is(err, ErrUnsupportedURL) {
			t.Fatalf("%s: expected ErrUnsupportedURL, got %v", raw, err)
		}
	}
}

func TestFetchReportsStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewService(srv.Client(), time.Second, nil).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 404 page")
	}
}

func TestFetchHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewService(srv.Client(), 50*time.Millisecond, nil).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("fetch took too long: %v", time.Since(start))
	}
}

func TestPublicClientRefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>internal admin</title></head></html>`))
	}))
	defer srv.Close()

	meta, err := NewService(nil, time.Second, nil).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrBlockedAddress) {
		t.Fatalf("expected ErrBlockedAddress, got %v", err)
	}
	if meta != nil {
		t.Fatalf("expected no metadata, got %+v", meta)
	}
}

func TestPublicAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"::ffff:127.0.0.1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.10", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"224.0.0.1", false},
	}
	for _, tc := range tests {
		if got := publicAddr(netip.MustParseAddr(tc.addr)); got != tc.want {
			t.Errorf("publicAddr(%s) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

package forms

import (
	"testing"
	"time"
)

func TestNormalizeColor(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "blank", in: "  ", out: "#000000"},
		{name: "upper", in: "#FF6900", out: "#ff6900"},
		{name: "no hash", in: "f8f8f8", out: "#f8f8f8"},
		{name: "shorthand", in: "#0aF", out: "#00aaff"},
		{name: "bad digits", in: "#GG0000", out: "#000000"},
		{name: "bad length", in: "#12345", out: "#000000"},
	}
	for _, tc := range cases {
		if got := NormalizeColor(tc.in, "#000000"); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestSameColor(t *testing.T) {
	if !SameColor("#FF6900", "#ff6900") {
		t.Fatal("expected case-insensitive match")
	}
	if !SameColor("#fff", "#FFFFFF") {
		t.Fatal("expected shorthand match")
	}
	if SameColor("", "") {
		t.Fatal("blank colors should not match")
	}
}

func TestCanonicalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "blank", in: "  ", out: ""},
		{name: "already https", in: "https://example.com/me", out: "https://example.com/me"},
		{name: "bare host", in: "linkedin.com/in/ada", out: "https://linkedin.com/in/ada"},
		{name: "other scheme", in: "ftp://example.com", out: ""},
		{name: "not a host", in: "hello", out: ""},
	}
	for _, tc := range cases {
		if got := CanonicalizeURL(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestFormatCreatedAt(t *testing.T) {
	cases := []struct {
		in  time.Time
		out string
	}{
		{in: time.Date(2021, time.March, 1, 14, 5, 9, 0, time.UTC), out: "March 1st 2021, 2:05:09 pm"},
		{in: time.Date(2021, time.March, 2, 0, 0, 0, 0, time.UTC), out: "March 2nd 2021, 12:00:00 am"},
		{in: time.Date(2021, time.March, 13, 9, 30, 0, 0, time.UTC), out: "March 13th 2021, 9:30:00 am"},
		{in: time.Date(2021, time.March, 23, 23, 59, 59, 0, time.UTC), out: "March 23rd 2021, 11:59:59 pm"},
	}
	for _, tc := range cases {
		if got := FormatCreatedAt(tc.in); got != tc.out {
			t.Fatalf("expected %q got %q", tc.out, got)
		}
	}
	if got := FormatCreatedAt(time.Time{}); got != "" {
		t.Fatalf("expected blank for zero time, got %q", got)
	}
}

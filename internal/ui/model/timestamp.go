package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding a created_at string.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// Epoch values at or above this are treated as milliseconds.
const epochMillisThreshold = 1e11

// Timestamp is a backend created_at value. Formats the decoder does not
// recognise leave Time zero and keep the original text in Raw.
type Timestamp struct {
	time.Time
	Raw string
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Display returns the raw backend text when the value could not be parsed.
func (ts Timestamp) Display() string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return ""
}

// MarshalJSON writes RFC 3339, or the raw text when nothing was parsed.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		if ts.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(ts.Raw)
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339 and the common SQL layouts, plus epoch
// seconds or milliseconds as numbers or numeric strings. It never fails.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			ts.Raw = text
			return nil
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return nil
		}
	}

	if t, ok := parseTimestamp(text); ok {
		ts.Time = t
		return nil
	}
	ts.Raw = text
	return nil
}

func parseTimestamp(text string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return time.Time{}, false
	}
	if n >= epochMillisThreshold {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC(), true
}

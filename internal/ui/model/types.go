package model

import (
	"fmt"
	"time"
)

// Default colors applied to a fresh form.
const (
	DefaultPrimaryColor    = "#FF6900"
	DefaultBackgroundColor = "#f8f8f8"
)

// Palette lists the swatches offered by both color pickers.
var Palette = []string{
	"#FF6900", "#FCB900", "#7BDCB5", "#00D084", "#8ED1FC",
	"#0693E3", "#ABB8C3", "#EB144C", "#F78DA7", "#9900EF",
}

// FormInput is the user-entered snapshot submitted to the QR service.
type FormInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	PrimaryColor    string `json:"main_color"`
	BackgroundColor string `json:"fill_color"`
}

// DefaultFormInput returns the form state shown on a fresh page load.
func DefaultFormInput() FormInput {
	return FormInput{
		PrimaryColor:    DefaultPrimaryColor,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// Record is one previously generated QR code as returned by the backend.
type Record struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	Image       string    `json:"image"`
}

// CreateRequest is the payload posted to the backend's create endpoint.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MainColor   string `json:"main_color"`
	FillColor   string `json:"fill_color"`
	URL         string `json:"url"`
}

// NewCreateRequest maps a form snapshot onto the wire payload.
func NewCreateRequest(in FormInput) CreateRequest {
	return CreateRequest{
		Name:        in.Name,
		Description: in.Description,
		MainColor:   in.PrimaryColor,
		FillColor:   in.BackgroundColor,
		URL:         in.URL,
	}
}

// SubmissionResult is the backend's answer to a successful create call.
type SubmissionResult struct {
	AllQRCodes     []Record `json:"all_qr_codes"`
	GeneratedQRPNG string   `json:"generated_qr_png"`
}

// Status gates duplicate submissions.
type Status int

const (
	Idle Status = iota
	Busy
)

func (s Status) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// MarshalText renders the status as "idle" or "busy" in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the strings produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "busy":
		*s = Busy
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// NoticeLevel selects the toast styling.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Toast messages shown for each submission outcome.
const (
	MessageGenerated      = "🤩 QR Code Generated!"
	MessageMissingDetails = "Please enter all details"
	MessageFailed         = "Something ain't working"
	MessageInFlight       = "Your QR code is still being generated"
)

// NoticeAutoClose is how long a toast stays on screen.
const NoticeAutoClose = 4 * time.Second

// Notice is a transient toast emitted by the submission flow.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// MetadataRequest asks the UI server to inspect a URL.
type MetadataRequest struct {
	URL string `json:"url"`
}

// MetadataResponse carries page details used to prefill the form.
type MetadataResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

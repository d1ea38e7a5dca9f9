package forms

import (
	"strings"

	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
)

// FieldErrors flags the required inputs that were left blank.
type FieldErrors struct {
	Name        bool `json:"name"`
	Description bool `json:"description"`
	URL         bool `json:"url"`
}

// Any reports whether at least one field failed validation.
func (e FieldErrors) Any() bool {
	return e.Name || e.Description || e.URL
}

// Fields lists the failing form field names in form order.
func (e FieldErrors) Fields() []string {
	var out []string
	if e.Name {
		out = append(out, "name")
	}
	if e.Description {
		out = append(out, "description")
	}
	if e.URL {
		out = append(out, "url")
	}
	return out
}

// ValidationError is returned when a submission is missing required details.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields.Fields(), ", ")
}

// ValidateSubmitForm checks the provided form for required fields. Callers are
// responsible for storing the flags if they need them for rendering.
func ValidateSubmitForm(form *model.FormInput) FieldErrors {
	if form == nil {
		return FieldErrors{Name: true, Description: true, URL: true}
	}
	return FieldErrors{
		Name:        strings.TrimSpace(form.Name) == "",
		Description: strings.TrimSpace(form.Description) == "",
		URL:         strings.TrimSpace(form.URL) == "",
	}
}

// Validate wraps ValidateSubmitForm and returns a *ValidationError when any
// required field is blank.
func Validate(form model.FormInput) error {
	errs := ValidateSubmitForm(&form)
	if errs.Any() {
		return &ValidationError{Fields: errs}
	}
	return nil
}

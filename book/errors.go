package book

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalid is matched by every *ValidationError via errors.Is.
var ErrInvalid = errors.New("bookshelf: invalid book")

// Reasons reported in FieldError.Reason.
const (
	ReasonInvalidJSON  = "invalid_json"
	ReasonNotObject    = "not_object"
	ReasonMissing      = "missing"
	ReasonTypeMismatch = "type_mismatch"
	ReasonEmpty        = "empty"
	ReasonMismatch     = "mismatch"
)

// FieldError describes a single offending field. Field is empty when the
// failure concerns the body as a whole.
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ValidationError enumerates the fields that failed the schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Reason)
			continue
		}
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Mismatch reports a body isbn that disagrees with the addressed isbn.
func Mismatch(path, body string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{
		Field:   "isbn",
		Reason:  ReasonMismatch,
		Message: "body isbn " + strconv.Quote(body) + " does not match path isbn " + strconv.Quote(path),
	}}}
}

func (e *ValidationError) add(field, reason, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason, Message: message})
}

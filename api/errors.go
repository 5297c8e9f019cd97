package api

import (
	"errors"
	"net/http"

	"github.com/jacentio/bookshelf/book"
)

// Error codes carried in the response envelope.
const (
	CodeValidation       = "ValidationError"
	CodeNotFound         = "NotFound"
	CodeInternal         = "InternalError"
	CodeBadRequest       = "BadRequest"
	CodeRouteNotFound    = "RouteNotFound"
	CodeMethodNotAllowed = "MethodNotAllowed"
)

// ErrorBody is the JSON envelope of every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure. Fields lists offending body fields for
// validation failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  []book.FieldError `json:"fields,omitempty"`
}

func errorResponse(status int, code, message string) *Response {
	return JSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func badRequest(message string) *Response {
	return errorResponse(http.StatusBadRequest, CodeBadRequest, message)
}

func notFound(message string) *Response {
	return errorResponse(http.StatusNotFound, CodeNotFound, message)
}

// internalError hides the cause from the client; callers log it.
func internalError() *Response {
	return errorResponse(http.StatusInternalServerError, CodeInternal, "internal error")
}

// validationFailed renders err as a 400. Errors other than
// *book.ValidationError are reported without field details.
func validationFailed(err error) *Response {
	detail := ErrorDetail{Code: CodeValidation, Message: err.Error()}

	var verr *book.ValidationError
	if errors.As(err, &verr) {
		detail.Fields = verr.Fields
	}
	return JSON(http.StatusBadRequest, ErrorBody{Error: detail})
}

// Package api maps HTTP requests onto catalog operations.
//
// Handlers consume a [Request] and produce a [Response]. A [Router] serves
// them on gin, and [NewLambdaHandler] puts the same engine behind API Gateway
// proxy events.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jacentio/bookshelf/book"
)

// Request is an inbound call after transport decoding.
type Request struct {
	// ID correlates log lines; empty when the transport supplies none.
	ID string

	Method string
	Path   string

	// Params holds the path parameters of the matched route.
	Params map[string]string

	Body []byte

	// Book is set by the router once the body passed schema validation.
	Book *book.Book
}

// Param returns the named path parameter.
func (r *Request) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

// Response is the outcome of a handler.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// HandlerFunc serves one operation.
type HandlerFunc func(ctx context.Context, req *Request) *Response

const contentTypeJSON = "application/json"

// JSON encodes v as the response body.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return &Response{
			Status:  http.StatusInternalServerError,
			Headers: map[string]string{"Content-Type": contentTypeJSON},
			Body:    []byte(`{"error":{"code":"InternalError","message":"internal error"}}`),
		}
	}
	return &Response{
		Status:  status,
		Headers: map[string]string{"Content-Type": contentTypeJSON},
		Body:    body,
	}
}

// NoContent is an empty response with the given status.
func NoContent(status int) *Response {
	return &Response{Status: status, Headers: map[string]string{}}
}

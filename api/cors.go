package api

import (
	"context"
	"net/http"
)

// Preflight header values. Clients compare them byte for byte.
const (
	CORSAllowHeaders     = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent"
	CORSAllowOrigin      = "*"
	CORSAllowCredentials = "false"
	CORSAllowMethods     = "OPTIONS,GET,PUT,POST,DELETE"
)

// CORSHeaders returns a fresh copy of the preflight headers.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Headers":     CORSAllowHeaders,
		"Access-Control-Allow-Origin":      CORSAllowOrigin,
		"Access-Control-Allow-Credentials": CORSAllowCredentials,
		"Access-Control-Allow-Methods":     CORSAllowMethods,
	}
}

// Preflight answers CORS preflight requests with a constant response.
// It never touches the store.
func Preflight() HandlerFunc {
	return func(context.Context, *Request) *Response {
		return &Response{Status: http.StatusOK, Headers: CORSHeaders()}
	}
}

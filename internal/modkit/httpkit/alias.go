// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "sdexindex/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Page is the keyset pagination metadata type
	Page = phttp.Page

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response with items and keyset page metadata
func List(items any, p Page) Response { return phttp.List(items, p) }

// Call adapts a handler that takes no bound input
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.CallHandler(fn) }

// Query adapts a handler whose input is bound from the query string
func Query[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.QueryHandler(fn) }

// Handle lets you directly adapt a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Param returns a path parameter such as {id}
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

package httpkit

import (
	"net/http"

	phttp "sdexindex/internal/platform/net/http"
)

// Get registers a no-input handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.Get(r, path, h)
}

// GetQuery registers a GET handler whose input is bound and validated from the query string
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

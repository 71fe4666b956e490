package http

import "net/http"

// Get mounts a body-less JSON handler for GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, CallHandler(h))
}

// GetQuery mounts a JSON handler for GET whose input is bound from the query string
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(h))
}

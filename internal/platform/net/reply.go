package net

import (
	"context"
	"net/http"

	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/logger"
)

// Wire is the error envelope written by transports that sit outside the handler adapters
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error builds an error envelope and its status
// a nil error maps to a bare 200 envelope
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{
			StatusCode: http.StatusOK,
			Status:     http.StatusText(http.StatusOK),
			RequestID:  reqID,
		}
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Kind:       w.Kind,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}

// LogError records a server side failure on the request scoped logger
func LogError(ctx context.Context, err error) {
	logger.C(ctx).Error().Err(err).Str("kind", perr.CodeOf(err).String()).Msg("request failed")
}

package web

// errors.go turns service errors into JSON responses.
//
// The technical error is logged with the request id; the client receives the
// mapped core.UserMessage plus, for validation failures, the offending fields.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/ropeworks/internal/core"
	"github.com/JonMunkholm/ropeworks/internal/logging"
	"github.com/JonMunkholm/ropeworks/internal/sheet"
)

// errInvalidRequest marks malformed paths, queries and bodies.
var errInvalidRequest = errors.New("invalid request")

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Action  string                 `json:"action,omitempty"`
	Code    string                 `json:"code"`
	Fields  []core.ValidationError `json:"fields,omitempty"`
}

// fail responds with the status statusFor derives from err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, statusFor(err))
}

// respondError logs err and writes the user-facing JSON error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logFor(r).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, r, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Fields:  core.Fields(err),
	})
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, sheet.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, sheet.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case core.IsValidation(err), errors.Is(err, core.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrImportBusy), errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	// the file decoded badly
	if strings.HasPrefix(core.MapError(err).Code, "FILE") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// logFor returns the request-scoped logger.
func logFor(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context())
}

package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes the {"error": message} body.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, errors.ErrorResponse{Error: message})
}

// HandleServiceError maps err onto a status code and the error body. Server
// side failures are logged with their cause; the client only sees a generic
// sentence.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errors.ToHTTPResponse(err)
	if status >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	} else {
		logger.From(r.Context()).Debug("request rejected",
			"status", status,
			"error", body.Error)
	}
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads the request body into dst. An empty body is allowed when
// allowEmpty is set, leaving dst untouched.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return errors.ErrInvalidBody
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF && allowEmpty {
		return nil
	}
	if err != nil {
		return errors.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}

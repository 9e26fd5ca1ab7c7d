package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/campus-ops/pkg/logger"
)

// maxLoggedBody caps how much of a request body is read for logging.
const maxLoggedBody = 16 << 10

var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"apikey",
	"cookie",
	"credential",
}

// Logging writes one line per request and one per response through the
// request-scoped logger, masking sensitive headers and JSON fields.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.From(r.Context())

		log.Info("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
			"headers", filterHeaders(r.Header),
			"body", readBody(r),
		)

		ww := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)

		status := ww.status
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "response",
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size", ww.size,
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func readBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	raw, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))
	return FilterBody(raw)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = "[FILTERED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// FilterBody masks sensitive keys in a JSON body. Non-JSON bodies that
// mention a sensitive word are dropped entirely.
func FilterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED]"
		}
		return string(body)
	}

	filtered, err := json.Marshal(filterJSON(data))
	if err != nil {
		return "[FILTERED]"
	}
	return string(filtered)
}

func filterJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = "[FILTERED]"
				continue
			}
			out[key] = filterJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterJSON(item)
		}
		return out
	default:
		return v
	}
}

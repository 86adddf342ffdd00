package server

import (
	"log/slog"
	"net/http"
	"time"
)

func logRequest(r *http.Request, status, bytes int, elapsed time.Duration) {
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	slog.Default().Log(r.Context(), level, "http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"bytes", bytes,
		"elapsed_ms", elapsed.Milliseconds(),
		"remote", r.RemoteAddr,
	)
}

package httpapi

import (
	"log/slog"
	"net/http"
	"time"
)

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"from", r.RemoteAddr, "dur", time.Since(start))
	})
}

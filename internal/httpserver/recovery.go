package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// errorBody mirrors the failure body shape the auth middleware writes, so
// that every error response of the example server looks the same.
type errorBody struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Error  errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
}

// Recoverer returns middleware that recovers from panics, logs the panic
// with a stack trace, and returns a 500 to the client.
// If logger is nil, it uses the default slog logger.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("panic recovered",
						"panic", recovered,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(errorBody{
						Code:   http.StatusInternalServerError,
						Status: "failed",
						Error:  errorDetail{Message: "Internal server error."},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

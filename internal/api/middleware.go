// Package api implements the Synapse Med REST API using chi.
package api

import (
	"log/slog"
	"net/http"
)

// RecoverJSON turns a panic in the wrapped handler into a generic JSON 500
// carrying msg. Details are logged, never returned.
func RecoverJSON(msg string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					slog.Error("handler panic",
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec))
					writeJSON(w, http.StatusInternalServerError, errorBody(msg))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package middlewares

import (
	"fmt"
	"net/http"
)

// RequestSizeLimitMiddleware caps request bodies at maxRequestSize bytes.
//
// A declared Content-Length above the cap is rejected with 413 before the handler runs.
// Bodies of unknown length are wrapped with http.MaxBytesReader, so reading past the cap
// fails with *http.MaxBytesError, which handlers also answer with 413.
func RequestSizeLimitMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	tooLarge := fmt.Sprintf("request body exceeds %d bytes", maxRequestSize)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxRequestSize {
				writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}

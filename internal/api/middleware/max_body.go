package middleware

import (
	"net/http"

	"github.com/copydesk/copydesk/internal/api"
)

// MaxBodyBytes caps the request body at limit bytes. Document uploads carry
// full knowledge-base content, so the cap guards the chunker rather than a
// typical JSON payload. A non-positive limit disables the cap.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			// Declared length lets us reject before reading a byte;
			// MaxBytesReader covers chunked bodies that lie about it.
			if r.ContentLength != -1 && r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

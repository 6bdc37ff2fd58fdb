package middleware

import (
	"net/http"

	"github.com/kbukum/speakmate/util"
)

const defaultMaxBodySize = 26 * 1024 * 1024 // 26MB

// BodySizeLimit restricts the request body to the given size string
// (e.g. "26MB", "512KB"). Declared lengths above the limit are rejected
// with 413 up front; chunked bodies fail when the handler reads past it.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeDetail(w, http.StatusRequestEntityTooLarge,
					"Request body exceeds the maximum size of "+util.FormatSize(size))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

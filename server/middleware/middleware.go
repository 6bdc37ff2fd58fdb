package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speakmate/errors"
)

// Middleware wraps an http.Handler with additional behavior. The server
// applies its stack at the handler level so every route mounted on the
// root mux is covered, Gin routes included.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// GinWrap adapts a standard Middleware for use on a single Gin group.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
	}
}

// writeDetail writes the {"detail": msg} error body shared by every route.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apperrors.DetailResponse{Detail: msg})
}

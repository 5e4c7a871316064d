package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody mirrors the pkg/errors INTERNAL_ERROR envelope without pulling
// the encoder into the panic path.
const panicBody = `{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}`

// Recovery converts a handler panic into a JSON 500 so one bad request
// cannot take the process down. http.ErrAbortHandler is re-raised; the
// server uses it to abort the connection on purpose.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				l.ErrorContext(r.Context(), "panic while serving request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", v),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if _, err := io.WriteString(w, panicBody); err != nil {
					l.Error("failed to write panic response", slog.String("error", err.Error()))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package web

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type recorder struct {
	http.ResponseWriter
	status int
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// middleware wraps the router so that every response is logged with a request ID, including
// recovered panics and requests the router does not match.
func middleware(h http.Handler, log *zap.SugaredLogger) http.Handler {
	return requestLog(log)(recovery(log)(h))
}

func recovery(log *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Errorw("panic", "path", r.URL.Path, "error", err, "stack", string(debug.Stack()))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func requestLog(log *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			start := time.Now()
			rw := &recorder{ResponseWriter: w, status: http.StatusOK}

			rw.Header().Set("X-Request-Id", id)

			next.ServeHTTP(rw, r)

			log.Infow("request",
				"id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration", time.Since(start))
		})
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/warp/payroll-ledger/auth"
)

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Error("request failed")
				return
			}
			entry.Info("request")
		})
	}
}

// BasicAuth rejects requests whose basic-auth credentials do not match the
// stored operator credential. A legacy hash is upgraded on first success.
func BasicAuth(a *auth.Authenticator, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok || a.Check(user, password) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="payroll"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
				return
			}
			if err := a.Upgrade(r.Context(), user, password); err != nil {
				log.WithError(err).WithField("user", user).Warn("credential upgrade failed")
			}
			next.ServeHTTP(w, r)
		})
	}
}

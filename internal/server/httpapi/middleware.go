package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/services"
)

type contextKey int

const sessionKey contextKey = iota

// SessionFromContext returns the verified session placed there by the
// auth middleware.
func SessionFromContext(ctx context.Context) (*services.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*services.Session)
	return session, ok
}

// TokenVerifier is the slice of the account service the middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*services.Session, error)
}

// requireAuth extracts the bearer token and verifies it against the
// account's current stored token version. Any failure, including a token
// superseded by a newer login, gets a 401.
func requireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, common.ErrInvalidToken)
				return
			}

			session, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/services"
)

type fakeVerifier struct {
	session  *services.Session
	err      error
	gotToken string
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, token string) (*services.Session, error) {
	f.gotToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func protected(t *testing.T, verifier TokenVerifier) http.Handler {
	t.Helper()
	return requireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		writeJSON(w, http.StatusOK, map[string]string{"email": session.Email})
	}))
}

func TestRequireAuth_Success(t *testing.T) {
	verifier := &fakeVerifier{session: &services.Session{AccountID: "id-1", Email: "alice@example.com", TokenVersion: 3}}

	req := httptest.NewRequest(http.MethodGet, "/api/courses/x", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()

	protected(t, verifier).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sometoken", verifier.gotToken)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	verifier := &fakeVerifier{}

	for _, header := range []string{"", "sometoken", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/courses/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		protected(t, verifier).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAuth_FailureKindsAllMapTo401(t *testing.T) {
	for _, err := range []error{
		common.ErrInvalidToken,
		common.ErrTokenExpired,
		common.ErrSessionSuperseded,
		common.ErrorAccountNotFound,
		common.ErrorAuthenticationFailed,
	} {
		verifier := &fakeVerifier{err: err}

		req := httptest.NewRequest(http.MethodGet, "/api/courses/x", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		rec := httptest.NewRecorder()

		protected(t, verifier).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "error %v", err)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		// the body never says which check failed
		assert.Equal(t, "Authentication failed.", body["message"], "error %v", err)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_PreservesStatus(t *testing.T) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	handler := requestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWriteError_Statuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{common.ErrorAuthenticationFailed, http.StatusUnauthorized},
		{common.ErrSessionSuperseded, http.StatusUnauthorized},
		{common.ErrorAlreadyExists, http.StatusBadRequest},
		{common.ErrOTPMismatch, http.StatusBadRequest},
		{common.ErrOTPExpired, http.StatusBadRequest},
		{common.ErrOTPThrottle, http.StatusTooManyRequests},
		{common.ErrorValidation, http.StatusBadRequest},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrorInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

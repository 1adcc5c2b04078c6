// Package httpapi exposes the REST surface: account and session
// endpoints, the course catalog, lecture uploads and the doubt-session
// workflow. Every protected route goes through the bearer middleware,
// which re-checks the stored token version on each request.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/higherpolynomia/backend/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps the service error taxonomy onto HTTP statuses. All five
// authentication failure kinds collapse to 401; the response body does not
// say which check failed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorAuthenticationFailed),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrSessionSuperseded),
		errors.Is(err, common.ErrorAccountNotFound):
		writeMessage(w, http.StatusUnauthorized, "Authentication failed.")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "User already exists.")
	case errors.Is(err, common.ErrOTPMismatch), errors.Is(err, common.ErrOTPExpired):
		writeMessage(w, http.StatusBadRequest, "Invalid or expired OTP.")
	case errors.Is(err, common.ErrOTPThrottle):
		writeMessage(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, "Invalid request.")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Not found.")
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}

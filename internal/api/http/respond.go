package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

type errorBody struct {
	Error   string            `json:"error"`
	LeaseID string            `json:"lease_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var activeLease *domain.ActiveLeaseError
	if errors.As(err, &activeLease) {
		writeJSON(w, http.StatusConflict, errorBody{Error: activeLease.Error(), LeaseID: activeLease.LeaseID})
		return
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Error(), Fields: validation.Fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrPaymentRequired):
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrPreconditionFailed):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidOtpCode),
		errors.Is(err, domain.ErrOtpExpired):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logger.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		v := domain.NewValidationError()
		v.Add("body", "malformed JSON body")
		writeError(w, v)
		return false
	}
	return true
}

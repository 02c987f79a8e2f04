package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/service"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"InvalidSignature", domain.ErrInvalidSignature, http.StatusUnauthorized},
		{"InvalidCredentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"NotFound", domain.ErrNotFound, http.StatusNotFound},
		{"PaymentRequired", domain.ErrPaymentRequired, http.StatusPaymentRequired},
		{"AlreadyPaid", domain.ErrAlreadyPaid, http.StatusConflict},
		{"PreconditionFailed", domain.ErrPreconditionFailed, http.StatusConflict},
		{"InvalidOtp", domain.ErrInvalidOtpCode, http.StatusBadRequest},
		{"OtpExpired", domain.ErrOtpExpired, http.StatusBadRequest},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteError_ActiveLeaseCarriesLeaseID(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &domain.ActiveLeaseError{LeaseID: "lease-1"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lease-1", body.LeaseID)
}

func TestWriteError_ValidationCarriesFields(t *testing.T) {
	v := domain.NewValidationError()
	v.Add("price", "price must be a positive decimal amount")

	rec := httptest.NewRecorder()
	writeError(rec, v)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "price")
}

func TestWriteError_UnknownErrorIsNotEchoed(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: secret internals"))

	var body errorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}

package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/service"
)

type LeaseHandler struct {
	leases service.LeaseService
	otps   service.OtpService
}

func NewLeaseHandler(leases service.LeaseService, otps service.OtpService) *LeaseHandler {
	return &LeaseHandler{leases: leases, otps: otps}
}

type createLeaseRequest struct {
	PropertyID string `json:"property_id"`
}

func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req createLeaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID == "" {
		v := domain.NewValidationError()
		v.Add("property_id", "property_id is required")
		writeError(w, v)
		return
	}

	lease, err := h.leases.Create(r.Context(), principal, req.PropertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lease)
}

func (h *LeaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	lease, err := h.leases.Get(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

// List returns the caller's leases; ?role=landlord switches to the lendings
// side.
func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var (
		leases []domain.Lease
		err    error
	)
	if r.URL.Query().Get("role") == "landlord" {
		leases, err = h.leases.ListAsLandlord(r.Context(), principal)
	} else {
		leases, err = h.leases.ListAsTenant(r.Context(), principal)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leases)
}

func (h *LeaseHandler) ConfirmSummary(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.leases.ConfirmSummary)
}

func (h *LeaseHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var input service.VerificationInput
	if !decodeBody(w, r, &input) {
		return
	}

	lease, err := h.leases.SubmitVerification(r.Context(), principal, mux.Vars(r)["leaseId"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *LeaseHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	content, err := h.leases.GetContract(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"contract": content})
}

func (h *LeaseHandler) AcceptContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.leases.AcceptContract)
}

type respondRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

func (h *LeaseHandler) Respond(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req respondRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var approve bool
	switch req.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		v := domain.NewValidationError()
		v.Add("action", "action must be either approve or reject")
		writeError(w, v)
		return
	}

	lease, err := h.leases.Respond(r.Context(), principal, mux.Vars(r)["leaseId"], approve, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *LeaseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.leases.Cancel)
}

func (h *LeaseHandler) RequestOtp(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	issue, err := h.otps.RequestCode(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

type verifyOtpRequest struct {
	Code string `json:"code"`
}

func (h *LeaseHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req verifyOtpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lease, err := h.otps.VerifyCode(r.Context(), principal, mux.Vars(r)["leaseId"], req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *LeaseHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error)) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	lease, err := fn(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

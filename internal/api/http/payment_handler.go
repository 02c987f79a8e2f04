package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateApprovalFee(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	checkout, err := h.payments.CreateApprovalFee(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkout)
}

func (h *PaymentHandler) GetFeeStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	status, err := h.payments.GetFeeStatus(r.Context(), principal, mux.Vars(r)["leaseId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

package http

import (
	"io"
	"net/http"

	"arrienda-backend/internal/service"
)

// Inbound events are capped well above any payload the provider sends.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	payments service.PaymentService
}

func NewWebhookHandler(payments service.PaymentService) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// HandleWompiEvent receives provider notifications. The checksum in the
// x-event-checksum header, when present, overrides the one embedded in the
// body.
func (h *WebhookHandler) HandleWompiEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unreadable body"})
		return
	}

	if err := h.payments.ProcessWebhookEvent(r.Context(), body, r.Header.Get("x-event-checksum")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

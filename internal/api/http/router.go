// Package http wires the REST API: routing, authentication middleware and
// JSON encoding around the service layer.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"arrienda-backend/internal/security"
	"arrienda-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth     service.AuthService
	Property service.PropertyService
	Lease    service.LeaseService
	Otp      service.OtpService
	Payment  service.PaymentService
	Tokens   security.TokenManager
}

// NewRouter builds the full route table. Auth endpoints and the provider
// webhook are public; everything else requires a bearer token.
func NewRouter(s Services) *mux.Router {
	authHandler := NewAuthHandler(s.Auth)
	propertyHandler := NewPropertyHandler(s.Property)
	leaseHandler := NewLeaseHandler(s.Lease, s.Otp)
	paymentHandler := NewPaymentHandler(s.Payment)
	webhookHandler := NewWebhookHandler(s.Payment)

	root := mux.NewRouter()
	root.Use(loggingMiddleware)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := root.PathPrefix("/api/v1").Subrouter()

	// Public endpoints.
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/webhooks/wompi", webhookHandler.HandleWompiEvent).Methods("POST")
	api.HandleFunc("/properties", propertyHandler.ListAvailable).Methods("GET")
	// Registered before the {id} route so it is not captured as an id.
	api.Handle("/properties/mine",
		authMiddleware(s.Tokens)(http.HandlerFunc(propertyHandler.ListMine))).Methods("GET")
	api.HandleFunc("/properties/{id}", propertyHandler.Get).Methods("GET")

	// Authenticated endpoints.
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(s.Tokens))

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	authed.HandleFunc("/auth/become-landlord", authHandler.BecomeLandlord).Methods("POST")

	authed.HandleFunc("/properties", propertyHandler.Create).Methods("POST")
	authed.HandleFunc("/properties/{id}", propertyHandler.Update).Methods("PUT")

	authed.HandleFunc("/leases", leaseHandler.Create).Methods("POST")
	authed.HandleFunc("/leases", leaseHandler.List).Methods("GET")
	authed.HandleFunc("/leases/{leaseId}", leaseHandler.Get).Methods("GET")
	authed.HandleFunc("/leases/{leaseId}/confirm-summary", leaseHandler.ConfirmSummary).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/verification", leaseHandler.SubmitVerification).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/contract", leaseHandler.GetContract).Methods("GET")
	authed.HandleFunc("/leases/{leaseId}/contract/accept", leaseHandler.AcceptContract).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/otp/request", leaseHandler.RequestOtp).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/otp/verify", leaseHandler.VerifyOtp).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/respond", leaseHandler.Respond).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/cancel", leaseHandler.Cancel).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/approval-fee", paymentHandler.CreateApprovalFee).Methods("POST")
	authed.HandleFunc("/leases/{leaseId}/approval-fee", paymentHandler.GetFeeStatus).Methods("GET")

	return root
}

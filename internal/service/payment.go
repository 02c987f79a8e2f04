package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/utils"
	"arrienda-backend/internal/wompi"
)

// WompiSettings is the provider configuration slice the payment service
// needs.
type WompiSettings struct {
	PublicKey       string
	IntegritySecret string
	EventsSecret    string
	CheckoutBaseURL string
	FeePercent      int
}

// transactionFetcher is the provider API surface used by reconciliation.
type transactionFetcher interface {
	GetTransactionByReference(ctx context.Context, reference string) (*wompi.Transaction, error)
}

type paymentService struct {
	leaseRepo   repository.LeaseRepository
	paymentRepo repository.PaymentRepository
	webhookRepo repository.WebhookEventRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
	client      transactionFetcher
	settings    WompiSettings
}

func NewPaymentService(
	leaseRepo repository.LeaseRepository,
	paymentRepo repository.PaymentRepository,
	webhookRepo repository.WebhookEventRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	client transactionFetcher,
	settings WompiSettings,
) PaymentService {
	return &paymentService{
		leaseRepo:   leaseRepo,
		paymentRepo: paymentRepo,
		webhookRepo: webhookRepo,
		userRepo:    userRepo,
		tx:          tx,
		client:      client,
		settings:    settings,
	}
}

func (s *paymentService) CreateApprovalFee(ctx context.Context, principal domain.Principal, leaseID string) (*FeeCheckout, error) {
	logger.EnterMethod("paymentService.CreateApprovalFee", "leaseID", leaseID)

	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.LandlordID != principal.UserID && !principal.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if lease.Status != domain.LeaseStatusPendingLandlordApproval {
		return nil, domain.ErrPreconditionFailed
	}

	// Re-requesting the fee returns the open checkout instead of creating a
	// second payment. A checkout the provider already declined, voided or
	// errored is dead; the fee is re-linked to a fresh payment so the
	// landlord can retry.
	existing, err := s.paymentRepo.GetFeeByLeaseID(ctx, leaseID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsPaid {
			return nil, domain.ErrAlreadyPaid
		}
		open, err := s.paymentRepo.GetPaymentByID(ctx, existing.PaymentTransactionID)
		if err != nil {
			return nil, err
		}
		if open.Status == domain.PaymentStatusPending || open.Status == domain.PaymentStatusProcessing {
			return s.checkoutFromExisting(existing, open)
		}
	}

	rentCents, err := utils.ParseAmountCents(lease.MonthlyRent)
	if err != nil {
		return nil, fmt.Errorf("invalid lease rent amount: %w", err)
	}
	feeCents := utils.PercentOfCents(rentCents, s.settings.FeePercent)

	landlord, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	reference := wompi.PaymentReference(leaseID)
	signature := wompi.IntegritySignature(reference, feeCents, lease.Currency, s.settings.IntegritySecret)
	checkoutURL := wompi.CheckoutURL(s.settings.CheckoutBaseURL, reference)

	payment := &domain.PaymentTransaction{
		WompiReference:     reference,
		Amount:             utils.CentsToAmount(feeCents),
		Currency:           lease.Currency,
		Status:             domain.PaymentStatusPending,
		UserID:             principal.UserID,
		WompiCheckoutURL:   checkoutURL,
		IntegritySignature: signature,
		Metadata: domain.PaymentMetadata{
			LeaseID:   leaseID,
			UserEmail: landlord.Email,
			Purpose:   "lease_approval_fee",
		},
	}
	fee := existing
	if fee == nil {
		fee = &domain.LeaseApprovalFee{
			LeaseID:       leaseID,
			MonthlyRent:   lease.MonthlyRent,
			FeePercentage: utils.CentsToAmount(int64(s.settings.FeePercent) * 100),
			FeeAmount:     utils.CentsToAmount(feeCents),
		}
	}

	err = s.tx.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Payments.CreatePayment(ctx, payment); err != nil {
			return err
		}
		fee.PaymentTransactionID = payment.ID
		if existing != nil {
			return r.Payments.RelinkFeePayment(ctx, fee.ID, payment.ID)
		}
		return r.Payments.CreateFee(ctx, fee)
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateApprovalFee", err, "leaseID", leaseID)
		return nil, err
	}

	logger.ExitMethod("paymentService.CreateApprovalFee", "leaseID", leaseID, "reference", reference)
	return &FeeCheckout{
		Fee:         fee,
		Reference:   reference,
		CheckoutURL: checkoutURL,
		AmountCents: feeCents,
		Currency:    lease.Currency,
		Signature:   signature,
		PublicKey:   s.settings.PublicKey,
	}, nil
}

func (s *paymentService) GetFeeStatus(ctx context.Context, principal domain.Principal, leaseID string) (*FeeStatus, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewLease(lease) {
		return nil, domain.ErrForbidden
	}

	fee, err := s.paymentRepo.GetFeeByLeaseID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.GetPaymentByID(ctx, fee.PaymentTransactionID)
	if err != nil {
		return nil, err
	}
	return &FeeStatus{Fee: fee, Payment: payment}, nil
}

// webhookEvent is the provider's event envelope.
type webhookEvent struct {
	Event     string         `json:"event"`
	Data      map[string]any `json:"data"`
	SentAt    string         `json:"sent_at"`
	Timestamp int64          `json:"timestamp"`
	Signature struct {
		Properties []string `json:"properties"`
		Checksum   string   `json:"checksum"`
	} `json:"signature"`
}

func (s *paymentService) ProcessWebhookEvent(ctx context.Context, body []byte, checksumHeader string) error {
	logger.EnterMethod("paymentService.ProcessWebhookEvent")

	var event webhookEvent
	parseErr := json.Unmarshal(body, &event)

	received := event.Signature.Checksum
	if checksumHeader != "" {
		received = checksumHeader
	}

	var calculated string
	valid := false
	if parseErr == nil {
		values := make([]string, 0, len(event.Signature.Properties))
		for _, prop := range event.Signature.Properties {
			values = append(values, resolveEventProperty(event.Data, prop))
		}
		calculated = wompi.EventChecksum(values, event.Timestamp, s.settings.EventsSecret)
		valid = strings.EqualFold(calculated, received)
	}

	// Every inbound event is recorded, tampered or not, before any other
	// handling.
	audit := &domain.WebhookEvent{
		EventType:          eventTypeOrUnknown(event.Event),
		ReceivedChecksum:   received,
		CalculatedChecksum: calculated,
		IsValid:            valid,
		Payload:            string(body),
	}
	if err := s.webhookRepo.Create(ctx, audit); err != nil {
		return err
	}

	if parseErr != nil {
		v := domain.NewValidationError()
		v.Add("body", "malformed event payload")
		return v
	}
	if !valid {
		logger.Warn("webhook checksum mismatch", "eventID", audit.ID, "eventType", audit.EventType)
		return domain.ErrInvalidSignature
	}

	// Unrelated event types are acknowledged so the provider stops retrying.
	if event.Event != "transaction.updated" {
		return s.finishEvent(ctx, audit.ID, nil, nil)
	}

	txnJSON, err := json.Marshal(event.Data["transaction"])
	if err != nil {
		return err
	}
	var txn wompi.Transaction
	if err := json.Unmarshal(txnJSON, &txn); err != nil {
		note := fmt.Sprintf("malformed transaction payload: %v", err)
		return s.finishEvent(ctx, audit.ID, &note, nil)
	}

	payment, err := s.paymentRepo.GetPaymentByReference(ctx, txn.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			note := fmt.Sprintf("unknown payment reference: %s", txn.Reference)
			return s.finishEvent(ctx, audit.ID, &note, nil)
		}
		return err
	}

	if err := s.applyTransaction(ctx, payment, &txn); err != nil {
		return err
	}

	logger.ExitMethod("paymentService.ProcessWebhookEvent", "paymentID", payment.ID, "status", payment.Status)
	return s.finishEvent(ctx, audit.ID, nil, &payment.ID)
}

func (s *paymentService) ReconcilePendingPayments(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	pending, err := s.paymentRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for i := range pending {
		payment := &pending[i]
		txn, err := s.client.GetTransactionByReference(ctx, payment.WompiReference)
		if err != nil {
			logger.Warn("reconciliation lookup failed", "reference", payment.WompiReference, "error", err)
			continue
		}
		if txn == nil {
			continue
		}
		if err := s.applyTransaction(ctx, payment, txn); err != nil {
			logger.Warn("reconciliation apply failed", "reference", payment.WompiReference, "error", err)
			continue
		}
		reconciled++
	}
	return reconciled, nil
}

// applyTransaction maps the provider transaction onto the payment and, on
// approval, flips the fee. Payment update and fee flip commit together.
func (s *paymentService) applyTransaction(ctx context.Context, payment *domain.PaymentTransaction, txn *wompi.Transaction) error {
	status := mapProviderStatus(txn.Status)
	now := time.Now()

	payment.Status = status
	if txn.ID != "" {
		payment.WompiTransactionID = &txn.ID
	}
	if method := paymentMethodOf(txn); method != "" {
		payment.PaymentMethod = &method
	}

	switch status {
	case domain.PaymentStatusApproved:
		paidAt := now
		if t, err := time.Parse(time.RFC3339, txn.FinalizedAt); err == nil {
			paidAt = t
		}
		payment.PaidAt = &paidAt
	case domain.PaymentStatusVoided:
		payment.VoidedAt = &now
	}

	return s.tx.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Payments.UpdatePaymentStatus(ctx, payment); err != nil {
			return err
		}
		if status != domain.PaymentStatusApproved {
			return nil
		}

		fee, err := r.Payments.GetFeeByPaymentID(ctx, payment.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		if fee.IsPaid {
			return nil
		}
		return r.Payments.MarkFeePaid(ctx, fee.ID, *payment.PaidAt)
	})
}

func (s *paymentService) checkoutFromExisting(fee *domain.LeaseApprovalFee, payment *domain.PaymentTransaction) (*FeeCheckout, error) {
	amountCents, err := utils.ParseAmountCents(payment.Amount)
	if err != nil {
		return nil, err
	}
	return &FeeCheckout{
		Fee:         fee,
		Reference:   payment.WompiReference,
		CheckoutURL: payment.WompiCheckoutURL,
		AmountCents: amountCents,
		Currency:    payment.Currency,
		Signature:   payment.IntegritySignature,
		PublicKey:   s.settings.PublicKey,
	}, nil
}

func (s *paymentService) finishEvent(ctx context.Context, eventID string, note *string, paymentID *string) error {
	return s.webhookRepo.MarkProcessed(ctx, eventID, time.Now(), note, paymentID)
}

func mapProviderStatus(status string) domain.PaymentStatus {
	switch status {
	case "APPROVED":
		return domain.PaymentStatusApproved
	case "DECLINED":
		return domain.PaymentStatusDeclined
	case "VOIDED":
		return domain.PaymentStatusVoided
	case "ERROR":
		return domain.PaymentStatusError
	default:
		return domain.PaymentStatusPending
	}
}

func paymentMethodOf(txn *wompi.Transaction) string {
	if txn.PaymentMethodType != "" {
		return txn.PaymentMethodType
	}
	if txn.PaymentMethod != nil {
		return txn.PaymentMethod.Type
	}
	return ""
}

// resolveEventProperty walks a dotted path such as "transaction.amount_in_cents"
// through the event data and renders the leaf the way the provider does when
// computing checksums.
func resolveEventProperty(data map[string]any, path string) string {
	var current any = data
	for _, seg := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[seg]
	}

	switch v := current.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func eventTypeOrUnknown(eventType string) string {
	if eventType == "" {
		return "unknown"
	}
	return eventType
}

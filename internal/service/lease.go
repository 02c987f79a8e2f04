package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"arrienda-backend/internal/contract"
	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/utils"
)

type leaseService struct {
	leaseRepo    repository.LeaseRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	profileRepo  repository.TenantProfileRepository
	paymentRepo  repository.PaymentRepository
	tx           repository.Transactor
	notifier     Notifier
}

func NewLeaseService(
	leaseRepo repository.LeaseRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	profileRepo repository.TenantProfileRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.Transactor,
	notifier Notifier,
) LeaseService {
	return &leaseService{
		leaseRepo:    leaseRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		paymentRepo:  paymentRepo,
		tx:           tx,
		notifier:     notifier,
	}
}

func (s *leaseService) Create(ctx context.Context, principal domain.Principal, propertyID string) (*domain.Lease, error) {
	logger.EnterMethod("leaseService.Create", "propertyID", propertyID, "tenantID", principal.UserID)

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsAvailable {
		return nil, domain.ErrPreconditionFailed
	}
	if property.OwnerID == principal.UserID {
		return nil, domain.ErrForbidden
	}

	existing, err := s.leaseRepo.FindActiveByPropertyAndTenant(ctx, propertyID, principal.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ActiveLeaseError{LeaseID: existing.ID}
	}

	lease := &domain.Lease{
		PropertyID: propertyID,
		TenantID:   principal.UserID,
		LandlordID: property.OwnerID,
		// Economic snapshot. One month of rent as deposit.
		MonthlyRent:   property.Price,
		Currency:      property.Currency,
		DepositAmount: property.Price,
		Status:        domain.LeaseStatusDraft,
		CurrentStep:   domain.StepSummary,
	}
	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		logger.ExitMethodWithError("leaseService.Create", err, "propertyID", propertyID)
		return nil, err
	}
	logger.ExitMethod("leaseService.Create", "leaseID", lease.ID)
	return lease, nil
}

func (s *leaseService) Get(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewLease(lease) {
		return nil, domain.ErrForbidden
	}
	return lease, nil
}

func (s *leaseService) ConfirmSummary(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	if _, err := s.getAsTenant(ctx, principal, leaseID); err != nil {
		return nil, err
	}

	ok, err := s.leaseRepo.AdvanceStep(ctx, leaseID,
		domain.LeaseStatusDraft, domain.StepSummary,
		domain.LeaseStatusDraft, domain.StepVerification)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}
	return s.leaseRepo.GetByID(ctx, leaseID)
}

func (s *leaseService) SubmitVerification(ctx context.Context, principal domain.Principal, leaseID string, input VerificationInput) (*domain.Lease, error) {
	if _, err := s.getAsTenant(ctx, principal, leaseID); err != nil {
		return nil, err
	}
	if err := validateVerification(input); err != nil {
		return nil, err
	}

	profile := &domain.TenantProfile{
		UserID:            principal.UserID,
		DocumentType:      domain.DocumentType(input.DocumentType),
		DocumentNumber:    input.DocumentNumber,
		Occupation:        input.Occupation,
		MonthlyIncome:     input.MonthlyIncome,
		ReferenceName:     input.ReferenceName,
		ReferencePhone:    input.ReferencePhone,
		ReferenceRelation: input.ReferenceRelation,
	}

	// Profile write and step transition commit together so a lease never
	// reaches step 3 without verification data.
	err := s.tx.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Profiles.Upsert(ctx, profile); err != nil {
			return err
		}
		ok, err := r.Leases.AdvanceStep(ctx, leaseID,
			domain.LeaseStatusDraft, domain.StepVerification,
			domain.LeaseStatusDraft, domain.StepContract)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPreconditionFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.leaseRepo.GetByID(ctx, leaseID)
}

func (s *leaseService) GetContract(ctx context.Context, principal domain.Principal, leaseID string) (string, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return "", err
	}
	if !principal.CanViewLease(lease) {
		return "", domain.ErrForbidden
	}

	// Once accepted, the stored text is authoritative.
	if lease.ContractContent != nil {
		return *lease.ContractContent, nil
	}
	if lease.Status != domain.LeaseStatusDraft || lease.CurrentStep < domain.StepContract {
		return "", domain.ErrPreconditionFailed
	}
	return s.renderContract(ctx, lease)
}

func (s *leaseService) AcceptContract(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	lease, err := s.getAsTenant(ctx, principal, leaseID)
	if err != nil {
		return nil, err
	}

	content, err := s.renderContract(ctx, lease)
	if err != nil {
		return nil, err
	}

	ok, err := s.leaseRepo.SaveContract(ctx, leaseID, content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}
	return s.leaseRepo.GetByID(ctx, leaseID)
}

func (s *leaseService) Respond(ctx context.Context, principal domain.Principal, leaseID string, approve bool, notes string) (*domain.Lease, error) {
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

	status := domain.LeaseStatusRejected
	if approve {
		// Approval is gated on the paid fee; rejection is always free.
		fee, err := s.paymentRepo.GetFeeByLeaseID(ctx, leaseID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrPaymentRequired
			}
			return nil, err
		}
		if !fee.IsPaid {
			return nil, domain.ErrPaymentRequired
		}
		status = domain.LeaseStatusApproved
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	ok, err := s.leaseRepo.Respond(ctx, leaseID, status, time.Now(), notesPtr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}

	s.notifyResponse(ctx, lease, approve, notes)
	return s.leaseRepo.GetByID(ctx, leaseID)
}

func (s *leaseService) Cancel(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	if _, err := s.getAsTenant(ctx, principal, leaseID); err != nil {
		return nil, err
	}

	ok, err := s.leaseRepo.Cancel(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}
	return s.leaseRepo.GetByID(ctx, leaseID)
}

func (s *leaseService) ListAsTenant(ctx context.Context, principal domain.Principal) ([]domain.Lease, error) {
	return s.leaseRepo.ListByTenant(ctx, principal.UserID)
}

func (s *leaseService) ListAsLandlord(ctx context.Context, principal domain.Principal) ([]domain.Lease, error) {
	return s.leaseRepo.ListByLandlord(ctx, principal.UserID)
}

func (s *leaseService) getAsTenant(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.TenantID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	return lease, nil
}

func (s *leaseService) renderContract(ctx context.Context, lease *domain.Lease) (string, error) {
	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		return "", err
	}
	landlord, err := s.userRepo.GetByID(ctx, lease.LandlordID)
	if err != nil {
		return "", err
	}
	tenant, err := s.userRepo.GetByID(ctx, lease.TenantID)
	if err != nil {
		return "", err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, lease.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrPreconditionFailed
		}
		return "", err
	}

	return contract.Generate(contract.Data{
		Property:      property,
		Landlord:      landlord,
		Tenant:        tenant,
		TenantProfile: profile,
		Lease:         lease,
		GeneratedAt:   time.Now(),
	})
}

func (s *leaseService) notifyResponse(ctx context.Context, lease *domain.Lease, approved bool, notes string) {
	tenant, err := s.userRepo.GetByID(ctx, lease.TenantID)
	if err != nil {
		logger.Warn("failed to load tenant for response notification", "leaseID", lease.ID, "error", err)
		return
	}
	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		logger.Warn("failed to load property for response notification", "leaseID", lease.ID, "error", err)
		return
	}
	if err := s.notifier.SendLeaseResponse(ctx, tenant.Email, tenant.Name, property.Title, approved, notes); err != nil {
		logger.Warn("failed to send lease response notification", "leaseID", lease.ID, "error", err)
	}
}

func validateVerification(input VerificationInput) error {
	v := domain.NewValidationError()
	switch domain.DocumentType(input.DocumentType) {
	case domain.DocumentTypeCC, domain.DocumentTypeCE, domain.DocumentTypePassport:
	default:
		v.Add("document_type", "must be one of cc, ce, passport")
	}
	if strings.TrimSpace(input.DocumentNumber) == "" {
		v.Add("document_number", "document number is required")
	}
	if strings.TrimSpace(input.Occupation) == "" {
		v.Add("occupation", "occupation is required")
	}
	if cents, err := utils.ParseAmountCents(input.MonthlyIncome); err != nil || cents <= 0 {
		v.Add("monthly_income", "monthly income must be a positive decimal amount")
	}
	if strings.TrimSpace(input.ReferenceName) == "" {
		v.Add("reference_name", "reference name is required")
	}
	if strings.TrimSpace(input.ReferencePhone) == "" {
		v.Add("reference_phone", "reference phone is required")
	}
	if strings.TrimSpace(input.ReferenceRelation) == "" {
		v.Add("reference_relation", "reference relation is required")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

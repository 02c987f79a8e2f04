package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
)

type leaseServiceMocks struct {
	leases     *MockLeaseRepo
	properties *MockPropertyRepo
	users      *MockUserRepo
	profiles   *MockProfileRepo
	payments   *MockPaymentRepo
	notifier   *MockNotifier
}

func newLeaseService(t *testing.T) (LeaseService, *leaseServiceMocks) {
	t.Helper()
	m := &leaseServiceMocks{
		leases:     new(MockLeaseRepo),
		properties: new(MockPropertyRepo),
		users:      new(MockUserRepo),
		profiles:   new(MockProfileRepo),
		payments:   new(MockPaymentRepo),
		notifier:   new(MockNotifier),
	}
	tx := &fakeTransactor{repos: repository.Repositories{
		Leases:   m.leases,
		Profiles: m.profiles,
		Payments: m.payments,
	}}
	svc := NewLeaseService(m.leases, m.properties, m.users, m.profiles, m.payments, tx, m.notifier)
	return svc, m
}

var tenantPrincipal = domain.Principal{UserID: "tenant-1", Roles: []domain.Role{domain.RoleTenant}}

func availableProperty() *domain.Property {
	return &domain.Property{
		ID:          "prop-1",
		OwnerID:     "landlord-1",
		Title:       "Apartamento en Chapinero",
		Price:       "1500000.00",
		Currency:    "COP",
		IsAvailable: true,
	}
}

func TestLeaseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("SnapshotsEconomicsAtCreation", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.leases.On("FindActiveByPropertyAndTenant", ctx, "prop-1", "tenant-1").Return(nil, nil)
		m.leases.On("Create", ctx, mock.AnythingOfType("*domain.Lease")).Return(nil)

		lease, err := svc.Create(ctx, tenantPrincipal, "prop-1")
		assert.NoError(t, err)
		assert.Equal(t, "1500000.00", lease.MonthlyRent)
		assert.Equal(t, "1500000.00", lease.DepositAmount)
		assert.Equal(t, "COP", lease.Currency)
		assert.Equal(t, "landlord-1", lease.LandlordID)
		assert.Equal(t, domain.LeaseStatusDraft, lease.Status)
		assert.Equal(t, domain.StepSummary, lease.CurrentStep)
	})

	t.Run("RejectsSecondActiveLease", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.leases.On("FindActiveByPropertyAndTenant", ctx, "prop-1", "tenant-1").
			Return(&domain.Lease{ID: "lease-existing"}, nil)

		_, err := svc.Create(ctx, tenantPrincipal, "prop-1")

		var activeErr *domain.ActiveLeaseError
		assert.ErrorAs(t, err, &activeErr)
		assert.Equal(t, "lease-existing", activeErr.LeaseID)
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
		m.leases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsOwnProperty", func(t *testing.T) {
		svc, m := newLeaseService(t)
		p := availableProperty()
		p.OwnerID = tenantPrincipal.UserID
		m.properties.On("GetByID", ctx, "prop-1").Return(p, nil)

		_, err := svc.Create(ctx, tenantPrincipal, "prop-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("RejectsUnavailableProperty", func(t *testing.T) {
		svc, m := newLeaseService(t)
		p := availableProperty()
		p.IsAvailable = false
		m.properties.On("GetByID", ctx, "prop-1").Return(p, nil)

		_, err := svc.Create(ctx, tenantPrincipal, "prop-1")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})

	t.Run("AllowsNewLeaseAfterTerminal", func(t *testing.T) {
		// Terminal leases are filtered by the repository query, so a nil
		// result means creation proceeds.
		svc, m := newLeaseService(t)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.leases.On("FindActiveByPropertyAndTenant", ctx, "prop-1", "tenant-1").Return(nil, nil)
		m.leases.On("Create", ctx, mock.AnythingOfType("*domain.Lease")).Return(nil)

		_, err := svc.Create(ctx, tenantPrincipal, "prop-1")
		assert.NoError(t, err)
	})
}

func TestLeaseService_Get(t *testing.T) {
	ctx := context.Background()
	lease := &domain.Lease{ID: "lease-1", TenantID: "tenant-1", LandlordID: "landlord-1"}

	t.Run("TenantCanView", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		got, err := svc.Get(ctx, tenantPrincipal, "lease-1")
		assert.NoError(t, err)
		assert.Equal(t, "lease-1", got.ID)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		_, err := svc.Get(ctx, domain.Principal{UserID: "someone-else"}, "lease-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("AdminCanView", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		admin := domain.Principal{UserID: "admin-1", Roles: []domain.Role{domain.RoleAdmin}}
		_, err := svc.Get(ctx, admin, "lease-1")
		assert.NoError(t, err)
	})
}

func TestLeaseService_ConfirmSummary(t *testing.T) {
	ctx := context.Background()
	lease := &domain.Lease{ID: "lease-1", TenantID: "tenant-1", Status: domain.LeaseStatusDraft, CurrentStep: domain.StepSummary}

	t.Run("Advances", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.leases.On("AdvanceStep", ctx, "lease-1",
			domain.LeaseStatusDraft, domain.StepSummary,
			domain.LeaseStatusDraft, domain.StepVerification).Return(true, nil)

		_, err := svc.ConfirmSummary(ctx, tenantPrincipal, "lease-1")
		assert.NoError(t, err)
	})

	t.Run("StaleStateFailsPrecondition", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.leases.On("AdvanceStep", ctx, "lease-1",
			domain.LeaseStatusDraft, domain.StepSummary,
			domain.LeaseStatusDraft, domain.StepVerification).Return(false, nil)

		_, err := svc.ConfirmSummary(ctx, tenantPrincipal, "lease-1")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestLeaseService_SubmitVerification(t *testing.T) {
	ctx := context.Background()
	lease := &domain.Lease{ID: "lease-1", TenantID: "tenant-1", Status: domain.LeaseStatusDraft, CurrentStep: domain.StepVerification}

	validInput := VerificationInput{
		DocumentType:      "cc",
		DocumentNumber:    "1020304050",
		Occupation:        "Ingeniera",
		MonthlyIncome:     "4500000.00",
		ReferenceName:     "Maria Lopez",
		ReferencePhone:    "3001234567",
		ReferenceRelation: "hermana",
	}

	t.Run("UpsertsProfileAndAdvances", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.profiles.On("Upsert", ctx, mock.AnythingOfType("*domain.TenantProfile")).Return(nil)
		m.leases.On("AdvanceStep", ctx, "lease-1",
			domain.LeaseStatusDraft, domain.StepVerification,
			domain.LeaseStatusDraft, domain.StepContract).Return(true, nil)

		_, err := svc.SubmitVerification(ctx, tenantPrincipal, "lease-1", validInput)
		assert.NoError(t, err)
		m.profiles.AssertCalled(t, "Upsert", ctx, mock.MatchedBy(func(p *domain.TenantProfile) bool {
			return p.UserID == "tenant-1" && p.DocumentType == domain.DocumentTypeCC
		}))
	})

	t.Run("RejectsBadDocumentType", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		bad := validInput
		bad.DocumentType = "dni"
		_, err := svc.SubmitVerification(ctx, tenantPrincipal, "lease-1", bad)

		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "document_type")
	})
}

func TestLeaseService_Respond(t *testing.T) {
	ctx := context.Background()
	landlord := domain.Principal{UserID: "landlord-1", Roles: []domain.Role{domain.RoleLandlord}}

	pendingLease := func() *domain.Lease {
		return &domain.Lease{
			ID:         "lease-1",
			PropertyID: "prop-1",
			TenantID:   "tenant-1",
			LandlordID: "landlord-1",
			Status:     domain.LeaseStatusPendingLandlordApproval,
		}
	}

	t.Run("ApprovalWithoutFeeIsPaymentRequired", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(pendingLease(), nil)
		m.payments.On("GetFeeByLeaseID", ctx, "lease-1").Return(nil, domain.ErrNotFound)

		_, err := svc.Respond(ctx, landlord, "lease-1", true, "")
		assert.ErrorIs(t, err, domain.ErrPaymentRequired)
		m.leases.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ApprovalWithUnpaidFeeIsPaymentRequired", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(pendingLease(), nil)
		m.payments.On("GetFeeByLeaseID", ctx, "lease-1").
			Return(&domain.LeaseApprovalFee{ID: "fee-1", IsPaid: false}, nil)

		_, err := svc.Respond(ctx, landlord, "lease-1", true, "")
		assert.ErrorIs(t, err, domain.ErrPaymentRequired)
	})

	t.Run("ApprovalWithPaidFeeSucceeds", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(pendingLease(), nil)
		m.payments.On("GetFeeByLeaseID", ctx, "lease-1").
			Return(&domain.LeaseApprovalFee{ID: "fee-1", IsPaid: true}, nil)
		m.leases.On("Respond", ctx, "lease-1", domain.LeaseStatusApproved, mock.AnythingOfType("time.Time"), (*string)(nil)).
			Return(true, nil)
		m.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Email: "t@x.co", Name: "Tenant"}, nil)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.notifier.On("SendLeaseResponse", ctx, "t@x.co", "Tenant", mock.Anything, true, "").Return(nil)

		_, err := svc.Respond(ctx, landlord, "lease-1", true, "")
		assert.NoError(t, err)
	})

	t.Run("RejectionNeedsNoFee", func(t *testing.T) {
		svc, m := newLeaseService(t)
		notes := "no cumple requisitos"
		m.leases.On("GetByID", ctx, "lease-1").Return(pendingLease(), nil)
		m.leases.On("Respond", ctx, "lease-1", domain.LeaseStatusRejected, mock.AnythingOfType("time.Time"), &notes).
			Return(true, nil)
		m.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Email: "t@x.co", Name: "Tenant"}, nil)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.notifier.On("SendLeaseResponse", ctx, "t@x.co", "Tenant", mock.Anything, false, notes).Return(nil)

		_, err := svc.Respond(ctx, landlord, "lease-1", false, notes)
		assert.NoError(t, err)
		m.payments.AssertNotCalled(t, "GetFeeByLeaseID", mock.Anything, mock.Anything)
	})

	t.Run("NonLandlordForbidden", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(pendingLease(), nil)

		_, err := svc.Respond(ctx, tenantPrincipal, "lease-1", true, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("WrongStateFailsPrecondition", func(t *testing.T) {
		svc, m := newLeaseService(t)
		lease := pendingLease()
		lease.Status = domain.LeaseStatusDraft
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		_, err := svc.Respond(ctx, landlord, "lease-1", false, "")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestLeaseService_Cancel(t *testing.T) {
	ctx := context.Background()
	lease := &domain.Lease{ID: "lease-1", TenantID: "tenant-1", Status: domain.LeaseStatusDraft}

	t.Run("CancelsDraft", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.leases.On("Cancel", ctx, "lease-1").Return(true, nil)

		_, err := svc.Cancel(ctx, tenantPrincipal, "lease-1")
		assert.NoError(t, err)
	})

	t.Run("SignedLeaseCannotBeCancelled", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.leases.On("Cancel", ctx, "lease-1").Return(false, nil)

		_, err := svc.Cancel(ctx, tenantPrincipal, "lease-1")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestLeaseService_GetContract(t *testing.T) {
	ctx := context.Background()

	t.Run("StoredContractIsAuthoritative", func(t *testing.T) {
		svc, m := newLeaseService(t)
		content := "<div>contrato</div>"
		lease := &domain.Lease{
			ID:              "lease-1",
			TenantID:        "tenant-1",
			Status:          domain.LeaseStatusPendingSignature,
			CurrentStep:     domain.StepSignature,
			ContractContent: &content,
		}
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		got, err := svc.GetContract(ctx, tenantPrincipal, "lease-1")
		assert.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("TooEarlyFailsPrecondition", func(t *testing.T) {
		svc, m := newLeaseService(t)
		lease := &domain.Lease{ID: "lease-1", TenantID: "tenant-1", Status: domain.LeaseStatusDraft, CurrentStep: domain.StepVerification}
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)

		_, err := svc.GetContract(ctx, tenantPrincipal, "lease-1")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})

	t.Run("MissingProfileFailsPrecondition", func(t *testing.T) {
		svc, m := newLeaseService(t)
		lease := &domain.Lease{
			ID: "lease-1", PropertyID: "prop-1", TenantID: "tenant-1", LandlordID: "landlord-1",
			Status: domain.LeaseStatusDraft, CurrentStep: domain.StepContract,
		}
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.users.On("GetByID", ctx, "landlord-1").Return(&domain.User{ID: "landlord-1"}, nil)
		m.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1"}, nil)
		m.profiles.On("GetByUserID", ctx, "tenant-1").Return(nil, domain.ErrNotFound)

		_, err := svc.GetContract(ctx, tenantPrincipal, "lease-1")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestLeaseService_AcceptContract(t *testing.T) {
	ctx := context.Background()
	lease := &domain.Lease{
		ID: "lease-1", PropertyID: "prop-1", TenantID: "tenant-1", LandlordID: "landlord-1",
		Status: domain.LeaseStatusDraft, CurrentStep: domain.StepContract,
		MonthlyRent: "1500000.00", Currency: "COP", DepositAmount: "1500000.00",
	}
	profile := &domain.TenantProfile{
		UserID: "tenant-1", DocumentType: domain.DocumentTypeCC, DocumentNumber: "1020304050",
		Occupation: "Ingeniera", MonthlyIncome: "4500000.00",
		ReferenceName: "Maria", ReferencePhone: "300", ReferenceRelation: "hermana",
	}

	t.Run("FreezesContractAndAdvances", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(lease, nil)
		m.properties.On("GetByID", ctx, "prop-1").Return(availableProperty(), nil)
		m.users.On("GetByID", ctx, "landlord-1").Return(&domain.User{ID: "landlord-1", Name: "Ana", Email: "a@x.co"}, nil)
		m.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Name: "Luis", Email: "l@x.co"}, nil)
		m.profiles.On("GetByUserID", ctx, "tenant-1").Return(profile, nil)
		m.leases.On("SaveContract", ctx, "lease-1", mock.MatchedBy(func(content string) bool {
			return content != ""
		})).Return(true, nil)

		_, err := svc.AcceptContract(ctx, tenantPrincipal, "lease-1")
		assert.NoError(t, err)
	})

	t.Run("RepoErrorPropagates", func(t *testing.T) {
		svc, m := newLeaseService(t)
		m.leases.On("GetByID", ctx, "lease-1").Return(nil, errors.New("db down"))

		_, err := svc.AcceptContract(ctx, tenantPrincipal, "lease-1")
		assert.Error(t, err)
	})
}

package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/wompi"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) AddRole(ctx context.Context, userID string, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockLeaseRepo
type MockLeaseRepo struct {
	mock.Mock
}

func (m *MockLeaseRepo) Create(ctx context.Context, lease *domain.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}
func (m *MockLeaseRepo) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLeaseRepo) FindActiveByPropertyAndTenant(ctx context.Context, propertyID, tenantID string) (*domain.Lease, error) {
	args := m.Called(ctx, propertyID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLeaseRepo) AdvanceStep(ctx context.Context, id string, fromStatus domain.LeaseStatus, fromStep int32, toStatus domain.LeaseStatus, toStep int32) (bool, error) {
	args := m.Called(ctx, id, fromStatus, fromStep, toStatus, toStep)
	return args.Bool(0), args.Error(1)
}
func (m *MockLeaseRepo) SaveContract(ctx context.Context, id string, content string) (bool, error) {
	args := m.Called(ctx, id, content)
	return args.Bool(0), args.Error(1)
}
func (m *MockLeaseRepo) MarkSigned(ctx context.Context, id string, signedAt time.Time, signatureHash string) (bool, error) {
	args := m.Called(ctx, id, signedAt, signatureHash)
	return args.Bool(0), args.Error(1)
}
func (m *MockLeaseRepo) Respond(ctx context.Context, id string, status domain.LeaseStatus, respondedAt time.Time, notes *string) (bool, error) {
	args := m.Called(ctx, id, status, respondedAt, notes)
	return args.Bool(0), args.Error(1)
}
func (m *MockLeaseRepo) Cancel(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockLeaseRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Lease, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLeaseRepo) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Lease, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]domain.Lease), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Upsert(ctx context.Context, profile *domain.TenantProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.TenantProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantProfile), args.Error(1)
}

// MockOtpRepo
type MockOtpRepo struct {
	mock.Mock
}

func (m *MockOtpRepo) Create(ctx context.Context, code *domain.OtpCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
func (m *MockOtpRepo) FindLive(ctx context.Context, leaseID, userID string, now time.Time) (*domain.OtpCode, error) {
	args := m.Called(ctx, leaseID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OtpCode), args.Error(1)
}
func (m *MockOtpRepo) FindUnused(ctx context.Context, leaseID, userID, code string) (*domain.OtpCode, error) {
	args := m.Called(ctx, leaseID, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OtpCode), args.Error(1)
}
func (m *MockOtpRepo) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}
func (m *MockOtpRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreatePayment(ctx context.Context, p *domain.PaymentTransaction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetPaymentByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}
func (m *MockPaymentRepo) GetPaymentByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}
func (m *MockPaymentRepo) UpdatePaymentStatus(ctx context.Context, p *domain.PaymentTransaction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}
func (m *MockPaymentRepo) CreateFee(ctx context.Context, fee *domain.LeaseApprovalFee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetFeeByLeaseID(ctx context.Context, leaseID string) (*domain.LeaseApprovalFee, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseApprovalFee), args.Error(1)
}
func (m *MockPaymentRepo) GetFeeByPaymentID(ctx context.Context, paymentID string) (*domain.LeaseApprovalFee, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseApprovalFee), args.Error(1)
}
func (m *MockPaymentRepo) RelinkFeePayment(ctx context.Context, feeID, paymentID string) error {
	args := m.Called(ctx, feeID, paymentID)
	return args.Error(0)
}
func (m *MockPaymentRepo) MarkFeePaid(ctx context.Context, feeID string, paidAt time.Time) error {
	args := m.Called(ctx, feeID, paidAt)
	return args.Error(0)
}

// MockWebhookEventRepo
type MockWebhookEventRepo struct {
	mock.Mock
}

func (m *MockWebhookEventRepo) Create(ctx context.Context, event *domain.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockWebhookEventRepo) MarkProcessed(ctx context.Context, id string, processedAt time.Time, errorMessage *string, paymentTransactionID *string) error {
	args := m.Called(ctx, id, processedAt, errorMessage, paymentTransactionID)
	return args.Error(0)
}
func (m *MockWebhookEventRepo) GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEvent), args.Error(1)
}

// fakeTransactor runs the function against the given repositories without a
// real database transaction.
type fakeTransactor struct {
	repos repository.Repositories
}

func (f *fakeTransactor) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return fn(f.repos)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOtpCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	args := m.Called(ctx, email, name, code, expiresAt)
	return args.Error(0)
}
func (m *MockNotifier) SendLeaseSigned(ctx context.Context, landlordEmail, landlordName, tenantName, propertyTitle string) error {
	args := m.Called(ctx, landlordEmail, landlordName, tenantName, propertyTitle)
	return args.Error(0)
}
func (m *MockNotifier) SendLeaseResponse(ctx context.Context, tenantEmail, tenantName, propertyTitle string, approved bool, notes string) error {
	args := m.Called(ctx, tenantEmail, tenantName, propertyTitle, approved, notes)
	return args.Error(0)
}

// MockWompiClient
type MockWompiClient struct {
	mock.Mock
}

func (m *MockWompiClient) GetTransactionByReference(ctx context.Context, reference string) (*wompi.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wompi.Transaction), args.Error(1)
}

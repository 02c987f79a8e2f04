package service

import (
	"context"
	"time"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/utils"
)

type otpService struct {
	leaseRepo    repository.LeaseRepository
	otpRepo      repository.OtpRepository
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	tx           repository.Transactor
	notifier     Notifier
	expiry       time.Duration
	testMode     bool
}

func NewOtpService(
	leaseRepo repository.LeaseRepository,
	otpRepo repository.OtpRepository,
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	tx repository.Transactor,
	notifier Notifier,
	expiryMinutes int,
	testMode bool,
) OtpService {
	return &otpService{
		leaseRepo:    leaseRepo,
		otpRepo:      otpRepo,
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		tx:           tx,
		notifier:     notifier,
		expiry:       time.Duration(expiryMinutes) * time.Minute,
		testMode:     testMode,
	}
}

func (s *otpService) RequestCode(ctx context.Context, principal domain.Principal, leaseID string) (*OtpIssue, error) {
	logger.EnterMethod("otpService.RequestCode", "leaseID", leaseID)

	if _, err := s.signableLease(ctx, principal, leaseID); err != nil {
		return nil, err
	}

	now := time.Now()

	// Re-requesting while a code is live is idempotent: the caller gets the
	// same expiry back and no new code is minted.
	live, err := s.otpRepo.FindLive(ctx, leaseID, principal.UserID, now)
	if err != nil {
		return nil, err
	}
	if live != nil {
		return s.issue(live), nil
	}

	// The recipient is loaded before the code row is written so a failed
	// lookup does not leave a live code nobody received.
	var user *domain.User
	if !s.testMode {
		user, err = s.userRepo.GetByID(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
	}

	code := utils.TestOtpCode
	if !s.testMode {
		code, err = utils.GenerateOtpCode()
		if err != nil {
			return nil, err
		}
	}

	otp := &domain.OtpCode{
		UserID:    principal.UserID,
		LeaseID:   leaseID,
		Code:      code,
		ExpiresAt: now.Add(s.expiry),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, err
	}

	// Delivery is best effort. The code row is already live, so failing the
	// request here would lock the tenant out until it expires.
	if !s.testMode {
		if err := s.notifier.SendOtpCode(ctx, user.Email, user.Name, code, otp.ExpiresAt); err != nil {
			logger.Warn("failed to send otp code", "leaseID", leaseID, "error", err)
		}
	}

	logger.ExitMethod("otpService.RequestCode", "leaseID", leaseID, "expiresAt", otp.ExpiresAt)
	return s.issue(otp), nil
}

func (s *otpService) VerifyCode(ctx context.Context, principal domain.Principal, leaseID, code string) (*domain.Lease, error) {
	logger.EnterMethod("otpService.VerifyCode", "leaseID", leaseID)

	if _, err := s.signableLease(ctx, principal, leaseID); err != nil {
		return nil, err
	}

	signedAt := time.Now()

	// Code consumption and the signature transition commit together: a used
	// code always corresponds to a signed lease.
	err := s.tx.WithTx(ctx, func(r repository.Repositories) error {
		otp, err := r.Otps.FindUnused(ctx, leaseID, principal.UserID, code)
		if err != nil {
			return err
		}
		if otp == nil {
			return domain.ErrInvalidOtpCode
		}
		// An expired code is reported as such and left unconsumed.
		if otp.IsExpired(signedAt) {
			return domain.ErrOtpExpired
		}
		if err := r.Otps.MarkUsed(ctx, otp.ID, signedAt); err != nil {
			return err
		}

		hash := utils.SignatureHash(code, leaseID, principal.UserID, signedAt)
		ok, err := r.Leases.MarkSigned(ctx, leaseID, signedAt, hash)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPreconditionFailed
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("otpService.VerifyCode", err, "leaseID", leaseID)
		return nil, err
	}

	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	s.notifySigned(ctx, lease)
	logger.ExitMethod("otpService.VerifyCode", "leaseID", leaseID)
	return lease, nil
}

func (s *otpService) issue(otp *domain.OtpCode) *OtpIssue {
	issue := &OtpIssue{ExpiresAt: otp.ExpiresAt}
	if s.testMode {
		issue.TestCode = otp.Code
	}
	return issue
}

// signableLease loads the lease and checks it is the caller's and is sitting
// at the signature step.
func (s *otpService) signableLease(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.TenantID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	if lease.Status != domain.LeaseStatusPendingSignature || lease.CurrentStep != domain.StepSignature {
		return nil, domain.ErrPreconditionFailed
	}
	return lease, nil
}

func (s *otpService) notifySigned(ctx context.Context, lease *domain.Lease) {
	landlord, err := s.userRepo.GetByID(ctx, lease.LandlordID)
	if err != nil {
		logger.Warn("failed to load landlord for signed notification", "leaseID", lease.ID, "error", err)
		return
	}
	tenant, err := s.userRepo.GetByID(ctx, lease.TenantID)
	if err != nil {
		logger.Warn("failed to load tenant for signed notification", "leaseID", lease.ID, "error", err)
		return
	}
	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		logger.Warn("failed to load property for signed notification", "leaseID", lease.ID, "error", err)
		return
	}
	if err := s.notifier.SendLeaseSigned(ctx, landlord.Email, landlord.Name, tenant.Name, property.Title); err != nil {
		logger.Warn("failed to send signed notification", "leaseID", lease.ID, "error", err)
	}
}

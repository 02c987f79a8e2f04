package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
)

type leaseRepository struct {
	db DBTX
}

func NewLeaseRepository(db DBTX) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

const leaseColumns = `id, property_id, tenant_id, landlord_id, monthly_rent, currency, deposit_amount,
	status, current_step, start_date, end_date, contract_content, tenant_signed_at, tenant_signature_hash,
	landlord_responded_at, landlord_notes, created_at, updated_at`

func (r *leaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	logger.EnterMethod("leaseRepository.Create", "propertyID", lease.PropertyID, "tenantID", lease.TenantID)

	if lease.ID == "" {
		lease.ID = uuid.NewString()
	}
	query := `INSERT INTO leases (id, property_id, tenant_id, landlord_id, monthly_rent, currency,
	            deposit_amount, status, current_step, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING created_at, updated_at`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		lease.ID, lease.PropertyID, lease.TenantID, lease.LandlordID,
		lease.MonthlyRent, lease.Currency, lease.DepositAmount,
		lease.Status, lease.CurrentStep, now, now,
	).Scan(&lease.CreatedAt, &lease.UpdatedAt)

	if err != nil {
		logger.ExitMethodWithError("leaseRepository.Create", err, "propertyID", lease.PropertyID)
		return err
	}
	logger.ExitMethod("leaseRepository.Create", "leaseID", lease.ID)
	return nil
}

func (r *leaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE id = $1`
	return r.scanLease(r.db.QueryRowContext(ctx, query, id))
}

func (r *leaseRepository) FindActiveByPropertyAndTenant(ctx context.Context, propertyID, tenantID string) (*domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases
	          WHERE property_id = $1 AND tenant_id = $2
	            AND status NOT IN ('rejected', 'cancelled', 'completed')
	          ORDER BY created_at DESC LIMIT 1`
	lease, err := r.scanLease(r.db.QueryRowContext(ctx, query, propertyID, tenantID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return lease, err
}

// AdvanceStep only writes when the lease still holds the expected
// (status, step) pair, so concurrent transitions cannot overwrite each
// other.
func (r *leaseRepository) AdvanceStep(ctx context.Context, id string, fromStatus domain.LeaseStatus, fromStep int32, toStatus domain.LeaseStatus, toStep int32) (bool, error) {
	query := `UPDATE leases SET status=$1, current_step=$2, updated_at=$3
	          WHERE id=$4 AND status=$5 AND current_step=$6`
	res, err := r.db.ExecContext(ctx, query, toStatus, toStep, time.Now(), id, fromStatus, fromStep)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *leaseRepository) SaveContract(ctx context.Context, id string, content string) (bool, error) {
	query := `UPDATE leases SET status=$1, current_step=$2, contract_content=$3, updated_at=$4
	          WHERE id=$5 AND status=$6 AND current_step=$7`
	res, err := r.db.ExecContext(ctx, query,
		domain.LeaseStatusPendingSignature, domain.StepSignature, content, time.Now(),
		id, domain.LeaseStatusDraft, domain.StepContract)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *leaseRepository) MarkSigned(ctx context.Context, id string, signedAt time.Time, signatureHash string) (bool, error) {
	query := `UPDATE leases SET status=$1, current_step=$2, tenant_signed_at=$3, tenant_signature_hash=$4, updated_at=$5
	          WHERE id=$6 AND status=$7 AND current_step=$8`
	res, err := r.db.ExecContext(ctx, query,
		domain.LeaseStatusPendingLandlordApproval, domain.StepAwaitingApproval, signedAt, signatureHash, time.Now(),
		id, domain.LeaseStatusPendingSignature, domain.StepSignature)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *leaseRepository) Respond(ctx context.Context, id string, status domain.LeaseStatus, respondedAt time.Time, notes *string) (bool, error) {
	query := `UPDATE leases SET status=$1, landlord_responded_at=$2, landlord_notes=$3, updated_at=$4
	          WHERE id=$5 AND status=$6`
	res, err := r.db.ExecContext(ctx, query,
		status, respondedAt, notes, time.Now(), id, domain.LeaseStatusPendingLandlordApproval)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *leaseRepository) Cancel(ctx context.Context, id string) (bool, error) {
	query := `UPDATE leases SET status=$1, updated_at=$2
	          WHERE id=$3 AND status IN ('draft', 'pending_signature')`
	res, err := r.db.ExecContext(ctx, query, domain.LeaseStatusCancelled, time.Now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *leaseRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE tenant_id = $1 ORDER BY created_at DESC`
	return r.queryLeases(ctx, query, tenantID)
}

func (r *leaseRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE landlord_id = $1 ORDER BY created_at DESC`
	return r.queryLeases(ctx, query, landlordID)
}

func (r *leaseRepository) queryLeases(ctx context.Context, query string, args ...any) ([]domain.Lease, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(
			&l.ID, &l.PropertyID, &l.TenantID, &l.LandlordID, &l.MonthlyRent, &l.Currency, &l.DepositAmount,
			&l.Status, &l.CurrentStep, &l.StartDate, &l.EndDate, &l.ContractContent, &l.TenantSignedAt,
			&l.TenantSignatureHash, &l.LandlordRespondedAt, &l.LandlordNotes, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

func (r *leaseRepository) scanLease(row *sql.Row) (*domain.Lease, error) {
	l := &domain.Lease{}
	err := row.Scan(
		&l.ID, &l.PropertyID, &l.TenantID, &l.LandlordID, &l.MonthlyRent, &l.Currency, &l.DepositAmount,
		&l.Status, &l.CurrentStep, &l.StartDate, &l.EndDate, &l.ContractContent, &l.TenantSignedAt,
		&l.TenantSignatureHash, &l.LandlordRespondedAt, &l.LandlordNotes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

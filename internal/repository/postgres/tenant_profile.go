package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
)

type tenantProfileRepository struct {
	db DBTX
}

func NewTenantProfileRepository(db DBTX) repository.TenantProfileRepository {
	return &tenantProfileRepository{db: db}
}

// Upsert keys on the user_id unique constraint: first submission inserts,
// later submissions overwrite in place.
func (r *tenantProfileRepository) Upsert(ctx context.Context, p *domain.TenantProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO tenant_profiles (id, user_id, document_type, document_number, occupation,
	            monthly_income, reference_name, reference_phone, reference_relation, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          ON CONFLICT (user_id) DO UPDATE SET
	            document_type = EXCLUDED.document_type,
	            document_number = EXCLUDED.document_number,
	            occupation = EXCLUDED.occupation,
	            monthly_income = EXCLUDED.monthly_income,
	            reference_name = EXCLUDED.reference_name,
	            reference_phone = EXCLUDED.reference_phone,
	            reference_relation = EXCLUDED.reference_relation,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.DocumentType, p.DocumentNumber, p.Occupation,
		p.MonthlyIncome, p.ReferenceName, p.ReferencePhone, p.ReferenceRelation, now, now,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *tenantProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.TenantProfile, error) {
	query := `SELECT id, user_id, document_type, document_number, occupation, monthly_income,
	                 reference_name, reference_phone, reference_relation, created_at, updated_at
	          FROM tenant_profiles WHERE user_id = $1`
	p := &domain.TenantProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.DocumentType, &p.DocumentNumber, &p.Occupation, &p.MonthlyIncome,
		&p.ReferenceName, &p.ReferencePhone, &p.ReferenceRelation, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

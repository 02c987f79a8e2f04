package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
)

type propertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, title, COALESCE(description, ''), property_type, price, currency,
	address, city, COALESCE(neighborhood, ''), bedrooms, bathrooms, COALESCE(area_sqm::text, ''),
	is_furnished, is_available, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO properties (id, owner_id, title, description, property_type, price, currency,
	            address, city, neighborhood, bedrooms, bathrooms, area_sqm, is_furnished, is_available,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, '')::numeric, $14, $15, $16, $17)
	          RETURNING created_at, updated_at`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Description, p.PropertyType, p.Price, p.Currency,
		p.Address, p.City, p.Neighborhood, p.Bedrooms, p.Bathrooms, p.AreaSqm,
		p.IsFurnished, p.IsAvailable, now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p := &domain.Property{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType, &p.Price, &p.Currency,
		&p.Address, &p.City, &p.Neighborhood, &p.Bedrooms, &p.Bathrooms, &p.AreaSqm,
		&p.IsFurnished, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `UPDATE properties SET title=$1, description=$2, property_type=$3, price=$4, currency=$5,
	            address=$6, city=$7, neighborhood=$8, bedrooms=$9, bathrooms=$10,
	            area_sqm=NULLIF($11, '')::numeric, is_furnished=$12, is_available=$13, updated_at=$14
	          WHERE id=$15`
	_, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.PropertyType, p.Price, p.Currency,
		p.Address, p.City, p.Neighborhood, p.Bedrooms, p.Bathrooms, p.AreaSqm,
		p.IsFurnished, p.IsAvailable, time.Now(), p.ID)
	return err
}

func (r *propertyRepository) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	where := ` WHERE is_available = true`
	args := []any{}
	argIdx := 1
	if city != "" {
		where += ` AND city = $1`
		args = append(args, city)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM properties`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+propertyColumns+` FROM properties`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	props, err := scanProperties(rows)
	if err != nil {
		return nil, 0, err
	}
	return props, count, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperties(rows *sql.Rows) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType, &p.Price, &p.Currency,
			&p.Address, &p.City, &p.Neighborhood, &p.Bedrooms, &p.Bathrooms, &p.AreaSqm,
			&p.IsFurnished, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if len(user.Roles) == 0 {
		user.Roles = []domain.Role{domain.RoleTenant}
	}
	query := `INSERT INTO users (id, email, name, phone, password_hash, avatar_url, roles, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.Phone, user.PasswordHash, user.AvatarURL,
		pq.Array(rolesToStrings(user.Roles)), now, now,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(password_hash, ''),
	                 COALESCE(avatar_url, ''), roles, created_at, updated_at
	          FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(password_hash, ''),
	                 COALESCE(avatar_url, ''), roles, created_at, updated_at
	          FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name=$1, phone=$2, avatar_url=$3, roles=$4, updated_at=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.Phone, user.AvatarURL, pq.Array(rolesToStrings(user.Roles)), time.Now(), user.ID)
	return err
}

func (r *userRepository) AddRole(ctx context.Context, userID string, role domain.Role) error {
	query := `UPDATE users SET roles = array_append(roles, $1), updated_at = $2
	          WHERE id = $3 AND NOT ($1 = ANY(roles))`
	_, err := r.db.ExecContext(ctx, query, string(role), time.Now(), userID)
	return err
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var roles []string
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.PasswordHash,
		&user.AvatarURL, pq.Array(&roles), &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Roles = stringsToRoles(roles)
	return user, nil
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(roles []string) []domain.Role {
	out := make([]domain.Role, len(roles))
	for i, r := range roles {
		out[i] = domain.Role(r)
	}
	return out
}

package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) GetRole(ctx context.Context, userID string) (entity.Role, error) {
	var stored string
	err := r.DB.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrRoleNotFound
	}
	if err != nil {
		return "", err
	}
	return entity.ParseRole(stored), nil
}

// SetDefaultRole provisions a role only if the account has none yet.
// DO NOTHING keeps concurrent first-sight resolutions idempotent and
// guarantees provisioning never clobbers an explicitly assigned role.
func (r *RoleRepository) SetDefaultRole(ctx context.Context, userID string, role entity.Role) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID, role)
	return err
}

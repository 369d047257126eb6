package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// AdminRepo looks up administrator accounts. Accounts are provisioned
// out of band (see schema.sql); the API only authenticates them.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByEmail returns the admin with the given email, or sql.ErrNoRows.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM admins WHERE email = ? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns the admin with the given id, or sql.ErrNoRows.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM admins WHERE id = ? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

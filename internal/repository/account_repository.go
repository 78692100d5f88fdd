package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// AccountRepository handles account data access.
type AccountRepository struct {
	db Querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID retrieves an account by its UUID.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at
		 FROM accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("account %s not found", id)
		}
		return nil, err
	}
	return a, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at
		 FROM accounts WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("account %s not found", email)
		}
		return nil, err
	}
	return a, nil
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO accounts (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.Role,
	).Scan(&a.CreatedAt)
}

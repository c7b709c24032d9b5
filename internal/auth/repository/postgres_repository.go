package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/csukav/Webshop/internal/domain"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *domain.Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// GetProfileByID is the privileged role lookup the access gate relies
	// on. It must never be answered from a session claim.
	GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, email, full_name, role, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Email, p.FullName, p.Role, p.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT id, email, full_name, role, password_hash, created_at
	          FROM profiles WHERE email = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, email))
}

func (r *Repository) GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, email, full_name, role, password_hash, created_at
	          FROM profiles WHERE id = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &p, nil
}

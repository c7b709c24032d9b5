package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/csukav/Webshop/internal/auth/repository"
	"github.com/csukav/Webshop/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
)

type Service struct {
	profiles repository.ProfileRepository
	sessions *SessionStore
}

func NewService(profiles repository.ProfileRepository, sessions *SessionStore) *Service {
	return &Service{profiles: profiles, sessions: sessions}
}

// SignUp creates a profile with role "user" and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*domain.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", ErrEmailRequired
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	p := &domain.Profile{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}

	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, Identity{UserID: p.ID, Email: p.Email})
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return p, token, nil
}

// SignIn verifies the credentials and opens a session. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p, err := s.profiles.GetProfileByEmail(ctx, email)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !checkPassword(p.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, Identity{UserID: p.ID, Email: p.Email})
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return p, token, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to an identity. An unknown or expired token
// resolves to no identity, not an error.
func (s *Service) Resolve(ctx context.Context, token string) (*Identity, error) {
	identity, err := s.sessions.Get(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// CurrentProfile loads the full profile for an identity, including the role
// attribute read through the privileged repository path.
func (s *Service) CurrentProfile(ctx context.Context, identity *Identity) (*domain.Profile, error) {
	return s.profiles.GetProfileByID(ctx, identity.UserID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/hash"
	"github.com/Skotchmaster/phone_market/pkg/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration

	// compare defaults to hash.CheckPassword.
	compare func(hash, password string) bool
}

func (s *AuthService) checkPassword(h, password string) bool {
	if s.compare != nil {
		return s.compare(h, password)
	}
	return hash.CheckPassword(h, password)
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	return s.createUser(ctx, req.Name, req.Email, req.Password, req.Phone, domain.RoleUser)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, phone, role string) (*models.User, error) {
	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        strings.ReplaceAll(phone, " ", ""),
		Role:         role,
		IsActive:     true,
	}
	created, err := s.Repo.CreateUserIfNotExists(ctx, u)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	u, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if repo.IsNotFound(err) {
			// Unknown emails pay for a compare too, so response time does
			// not reveal which addresses are registered.
			s.checkPassword(hash.DummyHash(), req.Password)
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !s.checkPassword(u.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", domain.ErrForbidden)
	}

	exp := time.Now().Add(s.AccessTTL).UTC()
	token, err := tokens.NewAccessToken(s.JWTSecret, u.ID.String(), u.Role, exp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*models.User, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// IsActive reports whether the token subject still exists and may log in.
func (s *AuthService) IsActive(ctx context.Context, userID string) (bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return u.IsActive, nil
}

// SeedAdmin creates the bootstrap admin account unless the email is taken.
// It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := s.createUser(ctx, "Admin", email, password, "", domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Package services contains server-side business logic. This file implements
// UserService, which handles account registration, login and resolving a
// session token back to a live account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/server/auth"
	"github.com/dmitrijs2005/campusevents/internal/server/config"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/repomanager"
)

const defaultUserName = "User"

// comparePassword is a test seam for auth.ComparePassword.
var comparePassword = auth.ComparePassword

// RegisterInput is a self-service signup request. Empty Name and Role fall
// back to "User" and "user".
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult is a signed session token and the account it was issued for.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	allowAdminSignup      bool

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		allowAdminSignup:      cfg.AllowAdminSignup,
	}
}

// Register creates an account. Asking for the admin role is refused with
// common.ErrForbidden unless admin signup is enabled.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !slices.Contains(models.Roles, in.Role) {
		return nil, fmt.Errorf("%w: role must be one of %s", common.ErrorValidation, strings.Join(models.Roles, ", "))
	}
	if in.Role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, common.ErrForbidden
	}

	return s.create(ctx, in)
}

// CreateAdmin provisions an administrator account. It bypasses the signup
// gate and is meant for operator tooling only.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: models.RoleAdmin})
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		in.Name = defaultUserName
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller, in timing as well: an
// unknown email is still compared against a hash of the configured cost.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = comparePassword(password, s.absentUserHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := comparePassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user}, nil
}

// absentUserHash is the hash compared against when the email is unknown.
func (s *UserService) absentUserHash() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("absent-user-placeholder", s.bcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// Authenticate verifies token and re-reads the account it names, so deleted
// accounts and role changes take effect before the token expires.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidOrExpiredToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/internal/users"
	pkgauth "github.com/priyansupat/farmdirect-backend/pkg/auth"
	"github.com/priyansupat/farmdirect-backend/pkg/auth/session"
	"github.com/priyansupat/farmdirect-backend/pkg/config"
	"github.com/priyansupat/farmdirect-backend/pkg/db"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/security"
)

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput captures a new account request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     enums.UserRole
	FullName string
	Phone    *string
	Address  *string
}

// ProfileInput carries optional profile changes. Nil fields are left untouched.
type ProfileInput struct {
	FullName *string
	Phone    *string
	Address  *string
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service exposes account and credential operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
	UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*models.User, error)
}

type service struct {
	repo        users.Repository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service backed by the provided stack.
func NewService(repo users.Repository, sessions sessionManager, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:        repo,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and email are required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if input.Role != enums.UserRoleFarmer && input.Role != enums.UserRoleConsumer {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be farmer or consumer")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing account")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        input.Phone,
		Address:      input.Address,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}
	return created, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if !user.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	match, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	pair, err := s.mintPair(ctx, user, session.NewAccessID())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the session tied to the (possibly expired) access token and
// mints a fresh pair.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: signed, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account")
	}
	return updated, nil
}

func (s *service) mintPair(ctx context.Context, user *models.User, accessID string) (*TokenPair, error) {
	signed, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &TokenPair{AccessToken: signed, RefreshToken: refresh}, nil
}

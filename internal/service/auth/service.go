package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
	"github.com/denticore/clinic-api/pkg/auth"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/logger"
	"github.com/denticore/clinic-api/pkg/security"
)

// rolePermissions maps each role to what it may do. Receptionists run the
// front desk, dentists additionally manage treatments, admins everything.
var rolePermissions = map[model.UserRole][]string{
	model.UserRoleAdmin: {
		"appointments:read", "appointments:write",
		"patients:read", "patients:write",
		"practitioners:read", "practitioners:write",
		"treatments:read", "treatments:write",
		"invoices:read", "invoices:write",
		"users:write", "dashboard:read",
	},
	model.UserRoleDentist: {
		"appointments:read", "appointments:write",
		"patients:read", "patients:write",
		"practitioners:read",
		"treatments:read", "treatments:write",
		"dashboard:read",
	},
	model.UserRoleReceptionist: {
		"appointments:read", "appointments:write",
		"patients:read", "patients:write",
		"practitioners:read",
		"treatments:read",
		"invoices:read", "invoices:write",
		"dashboard:read",
	},
}

type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
}

type service struct {
	users  repository.UserRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
	logger *logger.Logger
}

func NewService(users repository.UserRepository, jwt auth.JWTService, hasher security.PasswordHasher, log *logger.Logger) Service {
	return &service{
		users:  users,
		jwt:    jwt,
		hasher: hasher,
		logger: log,
	}
}

func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Validation("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password does not meet requirements")
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Permissions:  rolePermissions[req.Role],
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "role", string(user.Role))
	return user, nil
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, apperrors.Unauthorized(nil)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", req.Email)
		return nil, apperrors.Unauthorized(nil)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login time")
	}

	return s.issueTokens(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(nil)
	}

	return s.issueTokens(user)
}

func (s *service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

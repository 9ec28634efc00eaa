package auth

import (
	"context"
	"errors"
	"time"

	autherrors "hr-dashboard/internal/auth/errors"
	"hr-dashboard/internal/employee"
	"hr-dashboard/internal/rbac"
	"hr-dashboard/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	ResolveEmployeeID(ctx context.Context, userID string) (string, error)
}

type service struct {
	repo         Repository
	rbac         rbac.Service
	employeeRepo employee.Repository
	secret       []byte
	tokenTTL     time.Duration
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	rbacService rbac.Service,
	employeeRepo employee.Repository,
	secret string,
	tokenTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:         repo,
		rbac:         rbacService,
		employeeRepo: employeeRepo,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login unknown email")
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return LoginResponse{}, apperror.Persistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("user_id", p.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(p.ID.String(), p.Role, s.tokenTTL)
	if err != nil {
		s.logger.Error("login token generation failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	user, err := s.buildResponse(ctx, p)
	if err != nil {
		return LoginResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", p.ID.String()), zap.String("role", p.Role))
	return LoginResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrProfileNotFound
		}
		return AuthResponse{}, apperror.Persistence(err)
	}

	return s.buildResponse(ctx, p)
}

// ResolveEmployeeID maps an authenticated user to the employee record linked
// through employees.user_id.
func (s *service) ResolveEmployeeID(ctx context.Context, userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", apperror.ErrIdentityUnresolved
	}

	empl, err := s.employeeRepo.FindByUserID(ctx, userID)
	if err != nil {
		mapped := employee.MapRepositoryError(err)
		if !apperror.HasCode(mapped, apperror.CodeIdentityUnresolved) {
			s.logger.Error("resolve employee failed", zap.String("user_id", userID), zap.Error(err))
		}
		return "", mapped
	}
	return empl.ID.String(), nil
}

func (s *service) buildResponse(ctx context.Context, p *Profile) (AuthResponse, error) {
	resp := AuthResponse{
		ID:       p.ID.String(),
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
	}

	employeeID, err := s.ResolveEmployeeID(ctx, p.ID.String())
	switch {
	case err == nil:
		resp.EmployeeID = employeeID
	case apperror.HasCode(err, apperror.CodeIdentityUnresolved):
		// Profiles without an employee record can still sign in.
	default:
		return AuthResponse{}, err
	}

	perms, err := s.rbac.Permissions(p.Role)
	if err != nil {
		s.logger.Warn("load permissions failed", zap.String("role", p.Role), zap.Error(err))
	}
	resp.Permissions = perms
	return resp, nil
}

func (s *service) generateToken(userID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

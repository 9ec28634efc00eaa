package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-dashboard/internal/auth"
	autherrors "hr-dashboard/internal/auth/errors"
	authMock "hr-dashboard/internal/auth/mock"
	"hr-dashboard/internal/employee"
	employeeerrors "hr-dashboard/internal/employee/errors"
	employeeMock "hr-dashboard/internal/employee/mock"
	rbacMock "hr-dashboard/internal/rbac/mock"
	"hr-dashboard/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type authDeps struct {
	svc       auth.Service
	repo      *authMock.MockRepository
	rbac      *rbacMock.MockService
	employees *employeeMock.MockRepository
}

func setupAuthService(t *testing.T) *authDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &authDeps{
		repo:      authMock.NewMockRepository(ctrl),
		rbac:      rbacMock.NewMockService(ctrl),
		employees: employeeMock.NewMockRepository(ctrl),
	}
	d.svc = auth.NewService(d.repo, d.rbac, d.employees, testSecret, time.Hour)
	return d
}

func newProfile(t *testing.T, password string) *auth.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.Profile{
		ID:           uuid.New(),
		Email:        "dina@example.com",
		FullName:     "Dina Kartika",
		PasswordHash: string(hash),
		Role:         "manager",
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues token and resolves employee", func(t *testing.T) {
		d := setupAuthService(t)
		p := newProfile(t, "password123")
		employeeID := uuid.New()

		d.repo.EXPECT().GetByEmail(ctx, p.Email).Return(p, nil)
		d.employees.EXPECT().FindByUserID(ctx, p.ID.String()).Return(&employee.Employee{ID: employeeID}, nil)
		d.rbac.EXPECT().Permissions("manager").Return([]string{"leave:review"}, nil)

		res, err := d.svc.Login(ctx, p.Email, "password123")

		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), res.User.EmployeeID)
		assert.Equal(t, []string{"leave:review"}, res.User.Permissions)
		assert.Equal(t, int64(3600), res.ExpiresIn)

		token, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, p.ID.String(), claims["user_id"])
		assert.Equal(t, "manager", claims["role"])
	})

	t.Run("profile without employee record can still sign in", func(t *testing.T) {
		d := setupAuthService(t)
		p := newProfile(t, "password123")

		d.repo.EXPECT().GetByEmail(ctx, p.Email).Return(p, nil)
		d.employees.EXPECT().FindByUserID(ctx, p.ID.String()).Return(nil, gorm.ErrRecordNotFound)
		d.rbac.EXPECT().Permissions("manager").Return(nil, nil)

		res, err := d.svc.Login(ctx, p.Email, "password123")

		require.NoError(t, err)
		assert.Empty(t, res.User.EmployeeID)
	})

	t.Run("wrong password", func(t *testing.T) {
		d := setupAuthService(t)
		p := newProfile(t, "password123")

		d.repo.EXPECT().GetByEmail(ctx, p.Email).Return(p, nil)

		_, err := d.svc.Login(ctx, p.Email, "nope")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		d := setupAuthService(t)

		d.repo.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := d.svc.Login(ctx, "ghost@example.com", "password123")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("store failure", func(t *testing.T) {
		d := setupAuthService(t)

		d.repo.EXPECT().GetByEmail(ctx, "dina@example.com").Return(nil, errors.New("conn reset"))

		_, err := d.svc.Login(ctx, "dina@example.com", "password123")

		assert.True(t, apperror.HasCode(err, apperror.CodePersistence))
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		d := setupAuthService(t)

		_, err := d.svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("profile gone", func(t *testing.T) {
		d := setupAuthService(t)
		id := uuid.NewString()

		d.repo.EXPECT().GetByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.svc.GetMe(ctx, id)

		assert.ErrorIs(t, err, autherrors.ErrProfileNotFound)
	})
}

func TestService_ResolveEmployeeID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("linked", func(t *testing.T) {
		d := setupAuthService(t)
		employeeID := uuid.New()
		d.employees.EXPECT().FindByUserID(ctx, userID).Return(&employee.Employee{ID: employeeID}, nil)

		got, err := d.svc.ResolveEmployeeID(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), got)
	})

	t.Run("no linked employee", func(t *testing.T) {
		d := setupAuthService(t)
		d.employees.EXPECT().FindByUserID(ctx, userID).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.svc.ResolveEmployeeID(ctx, userID)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotLinked)
		assert.True(t, apperror.HasCode(err, apperror.CodeIdentityUnresolved))
	})

	t.Run("store failure", func(t *testing.T) {
		d := setupAuthService(t)
		d.employees.EXPECT().FindByUserID(ctx, userID).Return(nil, errors.New("conn reset"))

		_, err := d.svc.ResolveEmployeeID(ctx, userID)

		assert.True(t, apperror.HasCode(err, apperror.CodePersistence))
	})
}

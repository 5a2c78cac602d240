package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/repository"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	return NewService(repository.NewUserRepository(db), jwt.New("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "correct-horse",
		Role:     "owner",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, domain.RoleOwner, reg.User.Role)
	assert.Equal(t, "asha@example.com", reg.User.Email)

	login, err := svc.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "a@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Mallory",
		Email:    "m@example.com",
		Password: "password1",
		Role:     "admin",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memory.NewUserRepo(), "secret", time.Hour)

	user, err := svc.Register(ctx, "Ana", " Ana@Example.com ", "hunter22", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestAuthService_RegisterRejectsDuplicatesAndBadRoles(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memory.NewUserRepo(), "secret", time.Hour)

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "pw", domain.RoleCoach)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ana 2", "ANA@example.com", "pw", domain.RoleCoach)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, "Bob", "bob@example.com", "pw", domain.Role("admin"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memory.NewUserRepo(), "secret", time.Hour)
	_, err := svc.Register(ctx, "Ana", "ana@example.com", "right", domain.RoleStudent)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_ParseTokenRejectsForeignAndExpired(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepo()
	svc := NewAuthService(users, "secret", time.Hour)
	_, err := svc.Register(ctx, "Ana", "ana@example.com", "pw", domain.RoleStudent)
	require.NoError(t, err)

	other := NewAuthService(users, "another-secret", time.Hour)
	foreign, _, err := other.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.(*authService).now = fixedClock(time.Now().Add(-2 * time.Hour))
	expired, _, err := svc.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthService(memory.NewUserRepo(), "", time.Hour)
	})
}

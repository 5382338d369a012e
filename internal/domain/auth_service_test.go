package domain

import (
	"context"
	"testing"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func register(t *testing.T, svc ports.AuthService) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), ports.RegisterInput{
		CompanyName:  "Acme Pictures",
		ContactEmail: "Marketing@Acme.example",
		FullName:     "Dana Reyes",
		Email:        " Dana@Acme.example ",
		Password:     "correct horse battery",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, testSecret, time.Hour)
	ctx := context.Background()

	u := register(t, svc)
	assert.Equal(t, "dana@acme.example", u.Email)
	assert.Equal(t, models.RoleDistributor, u.Role)
	require.NotNil(t, u.DistributorID)
	assert.NotEqual(t, "correct horse battery", u.PasswordHash)

	_, _, err := svc.Login(ctx, "dana@acme.example", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@acme.example", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, logged, err := svc.Login(ctx, "DANA@acme.example", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	p, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, models.RoleDistributor, p.Role)
	assert.Equal(t, *u.DistributorID, p.DistributorID)

	me, dist, err := svc.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", me.FullName)
	require.NotNil(t, dist)
	assert.Equal(t, "marketing@acme.example", dist.ContactEmail)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUsers(), testSecret, time.Hour)
	register(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		CompanyName: "Other", ContactEmail: "x@y.example", FullName: "X",
		Email: "dana@acme.example", Password: "another password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestValidateToken_Rejects(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, testSecret, time.Hour).(*authService)
	ctx := context.Background()
	register(t, svc)

	token, _, err := svc.Login(ctx, "dana@acme.example", "correct horse battery")
	require.NoError(t, err)

	other := NewAuthService(users, "another-secret-another-secret-00", time.Hour)
	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateAdmin(t *testing.T) {
	svc := NewAuthService(newFakeUsers(), testSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "ops@example.com", "Ops", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := svc.CreateAdmin(ctx, "Ops@Example.com", "Ops", "long enough secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Nil(t, u.DistributorID)

	token, _, err := svc.Login(ctx, "ops@example.com", "long enough secret")
	require.NoError(t, err)
	p, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	me, dist, err := svc.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", me.Email)
	assert.Nil(t, dist)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/config"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository/memory"
	"github.com/spec-kit/crm-access/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
			Namespace:     "crm-test",
		},
	}
}

type authFixture struct {
	svc   *AuthService
	store *memory.Store
	cache *auth.MemoryCredentialCache
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := memory.NewStore()
	cache := auth.NewMemoryCredentialCache()
	return &authFixture{
		svc:   NewAuthService(testConfig(), store, cache, zap.NewNop()),
		store: store,
		cache: cache,
	}
}

func (f *authFixture) seedStaff(t *testing.T, email, password string, role domain.StaffRole) *domain.StaffMember {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	staff := &domain.StaffMember{
		FirstName:    "Jean",
		LastName:     "Renard",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, f.store.Staff().Create(context.Background(), staff))
	return staff
}

func TestLoginStoresToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	seeded := f.seedStaff(t, "jean@example.com", "Str0ng!Pass", domain.RoleSales)

	staff, err := f.svc.Login(ctx, "jean@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, staff.ID)

	token, err := f.cache.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := f.svc.TokenManager().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, subject)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "jean@example.com", "Str0ng!Pass", domain.RoleSales)

	_, unknownEmail := f.svc.Login(ctx, "nobody@example.com", "Str0ng!Pass")
	_, wrongPassword := f.svc.Login(ctx, "jean@example.com", "wrong")

	assert.True(t, util.HasCode(unknownEmail, util.CodeInvalidCredentials))
	assert.True(t, util.HasCode(wrongPassword, util.CodeInvalidCredentials))
	assert.Equal(t, util.ToDomainError(unknownEmail).Message, util.ToDomainError(wrongPassword).Message)
}

func TestLogoutRevokesTokenAndClearsCache(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "jean@example.com", "Str0ng!Pass", domain.RoleSales)

	_, err := f.svc.Login(ctx, "jean@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	token, err := f.cache.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx))

	stored, err := f.cache.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	revoked, err := f.store.RevokedTokens().IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutWithoutSession(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Logout(context.Background())
	assert.True(t, util.HasCode(err, util.CodeNoSession))
}

func TestLogoutOfAlreadyRevokedTokenReportsConflict(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "jean@example.com", "Str0ng!Pass", domain.RoleSales)

	_, err := f.svc.Login(ctx, "jean@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	token, err := f.cache.Load(ctx)
	require.NoError(t, err)

	// Another process revoked the token first.
	already, err := f.store.RevokedTokens().Revoke(ctx, token)
	require.NoError(t, err)
	require.False(t, already)

	err = f.svc.Logout(ctx)
	require.True(t, util.HasCode(err, util.CodeConflict))
	assert.Equal(t, "already logged out", util.ToDomainError(err).Message)

	// The cache is cleared even on the conflict path.
	stored, err := f.cache.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	already, err := f.store.RevokedTokens().Revoke(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, already)

	already, err = f.store.RevokedTokens().Revoke(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, already)
}

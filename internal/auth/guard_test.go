package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository/memory"
	"github.com/spec-kit/crm-access/pkg/util"
)

type guardFixture struct {
	guard  *Guard
	store  *memory.Store
	cache  *MemoryCredentialCache
	tokens *TokenManager

	sales1     *domain.StaffMember
	sales2     *domain.StaffMember
	support    *domain.StaffMember
	management *domain.StaffMember

	ownedClient      *domain.Client
	signedContract   *domain.Contract
	unsignedContract *domain.Contract
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cache := NewMemoryCredentialCache()
	tokens := NewTokenManager("test-secret", 1)

	f := &guardFixture{
		guard:  NewGuard(NewResolver(cache, tokens, store), store),
		store:  store,
		cache:  cache,
		tokens: tokens,
	}

	mk := func(email string, role domain.StaffRole) *domain.StaffMember {
		staff := &domain.StaffMember{FirstName: "A", LastName: "B", Email: email, Role: role}
		require.NoError(t, store.Staff().Create(ctx, staff))
		return staff
	}
	f.sales1 = mk("sales1@example.com", domain.RoleSales)
	f.sales2 = mk("sales2@example.com", domain.RoleSales)
	f.support = mk("support@example.com", domain.RoleSupport)
	f.management = mk("management@example.com", domain.RoleManagement)

	f.ownedClient = &domain.Client{FirstName: "Cl", LastName: "One", CommercialID: f.sales1.ID}
	require.NoError(t, store.Clients().Create(ctx, f.ownedClient))

	f.signedContract = &domain.Contract{ClientID: f.ownedClient.ID, CommercialID: f.sales1.ID, Signed: true}
	require.NoError(t, store.Contracts().Create(ctx, f.signedContract))

	f.unsignedContract = &domain.Contract{ClientID: f.ownedClient.ID, CommercialID: f.sales1.ID, Signed: false}
	require.NoError(t, store.Contracts().Create(ctx, f.unsignedContract))

	return f
}

func (f *guardFixture) loginAs(t *testing.T, staff *domain.StaffMember) {
	t.Helper()
	token, err := f.tokens.Issue(staff.ID)
	require.NoError(t, err)
	require.NoError(t, f.cache.Save(context.Background(), token))
}

func noop(_ *domain.StaffMember) error { return nil }

func TestRequireRoleDeniesOutsideRoleSet(t *testing.T) {
	f := newGuardFixture(t)
	f.loginAs(t, f.support)

	ran := false
	err := f.guard.RequireRole(context.Background(),
		Requirement{Roles: []domain.StaffRole{domain.RoleSales}}, 0, ActionParams{},
		func(_ *domain.StaffMember) error { ran = true; return nil })

	assert.True(t, util.HasCode(err, util.CodePermissionDenied))
	assert.False(t, ran, "the action must not run when the role gate denies")
}

func TestRequireRoleSelfEditionBypassesRoleGate(t *testing.T) {
	f := newGuardFixture(t)
	f.loginAs(t, f.sales1)

	req := Requirement{
		Roles:                []domain.StaffRole{domain.RoleManagement},
		SelfEditionException: true,
	}

	err := f.guard.RequireRole(context.Background(), req, f.sales1.ID, ActionParams{}, noop)
	assert.NoError(t, err, "acting on one's own record bypasses the role gate")

	err = f.guard.RequireRole(context.Background(), req, f.sales2.ID, ActionParams{}, noop)
	assert.True(t, util.HasCode(err, util.CodePermissionDenied))
}

func TestRequireSelf(t *testing.T) {
	f := newGuardFixture(t)
	f.loginAs(t, f.sales1)
	ctx := context.Background()

	assert.NoError(t, f.guard.RequireSelf(ctx, f.sales1.ID, noop))

	err := f.guard.RequireSelf(ctx, f.sales2.ID, noop)
	assert.True(t, util.HasCode(err, util.CodePermissionDenied))
}

func TestClientOwnershipRelationship(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()
	req := Requirement{
		Roles:        []domain.StaffRole{domain.RoleManagement, domain.RoleSales},
		Relationship: RelationCollaboratorClient,
	}

	f.loginAs(t, f.sales1)
	assert.NoError(t, f.guard.RequireRole(ctx, req, f.ownedClient.ID, ActionParams{}, noop))

	f.loginAs(t, f.sales2)
	err := f.guard.RequireRole(ctx, req, f.ownedClient.ID, ActionParams{}, noop)
	require.True(t, util.HasCode(err, util.CodeRelationViolation))
	assert.Equal(t, "permission denied: you can only interact with assigned clients", util.ToDomainError(err).Message)

	// MANAGEMENT passes the role gate and is exempt from ownership.
	f.loginAs(t, f.management)
	assert.NoError(t, f.guard.RequireRole(ctx, req, f.ownedClient.ID, ActionParams{}, noop))
}

func TestContractOwnershipDenialOrdering(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()
	req := Requirement{
		Roles:        []domain.StaffRole{domain.RoleSales},
		Relationship: RelationCollaboratorContract,
	}

	f.loginAs(t, f.sales1)

	err := f.guard.RequireRole(ctx, req, 0, ActionParams{}, noop)
	require.True(t, util.HasCode(err, util.CodeMissingRelation))
	assert.Equal(t, "the contract_id field is mandatory", util.ToDomainError(err).Message)

	missing := 999
	err = f.guard.RequireRole(ctx, req, 0, ActionParams{ContractID: &missing}, noop)
	assert.True(t, util.HasCode(err, util.CodeNotFound))

	err = f.guard.RequireRole(ctx, req, 0, ActionParams{ContractID: &f.unsignedContract.ID}, noop)
	require.True(t, util.HasCode(err, util.CodeRelationViolation))
	assert.Equal(t, "permission denied: only signed contracts allow event creation", util.ToDomainError(err).Message)

	f.loginAs(t, f.sales2)
	err = f.guard.RequireRole(ctx, req, 0, ActionParams{ContractID: &f.signedContract.ID}, noop)
	require.True(t, util.HasCode(err, util.CodeRelationViolation))
	assert.Equal(t, "permission denied: you can only create events for assigned clients", util.ToDomainError(err).Message)

	f.loginAs(t, f.sales1)
	assert.NoError(t, f.guard.RequireRole(ctx, req, 0, ActionParams{ContractID: &f.signedContract.ID}, noop))
}

func TestGuardRequiresAuthenticationFirst(t *testing.T) {
	f := newGuardFixture(t)

	err := f.guard.RequireRole(context.Background(),
		Requirement{Roles: []domain.StaffRole{domain.RoleManagement}}, 0, ActionParams{}, noop)
	assert.True(t, util.HasCode(err, util.CodeNoSession))
}

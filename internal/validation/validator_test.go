package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository/memory"
	"github.com/spec-kit/crm-access/pkg/util"
)

type validatorFixture struct {
	validator *Validator

	salesID          int
	supportID        int
	clientID         int
	signedContractID int
	unsignedID       int
}

func newValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	sales := &domain.StaffMember{FirstName: "S", LastName: "One", Email: "s@example.com", Role: domain.RoleSales}
	require.NoError(t, store.Staff().Create(ctx, sales))
	support := &domain.StaffMember{FirstName: "S", LastName: "Two", Email: "t@example.com", Role: domain.RoleSupport}
	require.NoError(t, store.Staff().Create(ctx, support))

	client := &domain.Client{FirstName: "C", LastName: "L", CommercialID: sales.ID}
	require.NoError(t, store.Clients().Create(ctx, client))

	signed := &domain.Contract{ClientID: client.ID, CommercialID: sales.ID, Signed: true}
	require.NoError(t, store.Contracts().Create(ctx, signed))
	unsigned := &domain.Contract{ClientID: client.ID, CommercialID: sales.ID, Signed: false}
	require.NoError(t, store.Contracts().Create(ctx, unsigned))

	return &validatorFixture{
		validator:        NewValidator(store),
		salesID:          sales.ID,
		supportID:        support.ID,
		clientID:         client.ID,
		signedContractID: signed.ID,
		unsignedID:       unsigned.ID,
	}
}

func TestWeakPasswordAccumulatesEveryFailure(t *testing.T) {
	f := newValidatorFixture(t)

	res := f.validator.Validate(context.Background(), EntityCollaborator, Payload{"password": "abc"})
	require.False(t, res.IsValid())

	msgs := res.Messages()
	assert.Contains(t, msgs, "password: password must be at least 8 characters long")
	assert.Contains(t, msgs, "password: password must contain at least one uppercase letter")
	assert.Contains(t, msgs, "password: password must contain at least one number")
	assert.Contains(t, msgs, "password: password must contain at least one special character")
	assert.NotContains(t, msgs, "password: password must contain at least one lowercase letter")
}

func TestStrongPasswordPasses(t *testing.T) {
	f := newValidatorFixture(t)

	res := f.validator.Validate(context.Background(), EntityCollaborator, Payload{"password": "Str0ng!Pass"})
	assert.True(t, res.IsValid(), "unexpected failures: %v", res.Messages())
}

func TestDateTimeRejectsImpossibleCalendarDate(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityClient, Payload{"last_contact_date": "31/02/2030-10h00"})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "last_contact_date: invalid datetime format, expected format: DD/MM/YYYY-HHhMM")

	res = f.validator.Validate(ctx, EntityClient, Payload{"last_contact_date": "15/06/2030-10h00"})
	assert.True(t, res.IsValid())
}

func TestEmailAndPhoneFormats(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityClient, Payload{"email": "not-an-email"})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "email: invalid email format")

	res = f.validator.Validate(ctx, EntityClient, Payload{
		"email": "jean.renard@example.com",
		"phone": "+33 1 70 18 99 87",
	})
	assert.True(t, res.IsValid(), "unexpected failures: %v", res.Messages())

	res = f.validator.Validate(ctx, EntityClient, Payload{"phone": "call me"})
	assert.False(t, res.IsValid())
}

func TestEventLocationAddressFormat(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityEvent, Payload{"location": "12 Main Street, 75001 Paris, France"})
	assert.True(t, res.IsValid(), "unexpected failures: %v", res.Messages())

	res = f.validator.Validate(ctx, EntityEvent, Payload{"location": "nowhere"})
	assert.False(t, res.IsValid())
}

func TestAbsentFieldsAreSkipped(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	for _, entity := range []EntityType{EntityClient, EntityCollaborator, EntityContract, EntityEvent} {
		res := f.validator.Validate(ctx, entity, Payload{})
		assert.True(t, res.IsValid())
	}

	// nil and empty-string values count as absent.
	res := f.validator.Validate(ctx, EntityClient, Payload{"email": "", "phone": nil})
	assert.True(t, res.IsValid())
}

func TestWrongTypeIsReportedAndRuleSkipped(t *testing.T) {
	f := newValidatorFixture(t)

	res := f.validator.Validate(context.Background(), EntityContract, Payload{"is_signed": "yes"})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "is_signed: expected type bool, got string")
}

func TestStaffReferenceEnforcesRole(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityClient, Payload{"commercial_id": f.supportID})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "commercial_id: the given collaborator is not of the authorized role")

	res = f.validator.Validate(ctx, EntityClient, Payload{"commercial_id": 999})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "commercial_id: no such entry registered in the database")

	res = f.validator.Validate(ctx, EntityClient, Payload{"commercial_id": f.salesID})
	assert.True(t, res.IsValid())
}

func TestEventSupportReferenceEnforcesRole(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityEvent, Payload{"support_id": f.salesID})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "support_id: the given collaborator is not of the authorized role")

	res = f.validator.Validate(ctx, EntityEvent, Payload{"support_id": f.supportID})
	assert.True(t, res.IsValid())
}

func TestContractReferenceRequiresSignedContract(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityEvent, Payload{"contract_id": f.unsignedID})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "contract_id: it is not allowed to create an event for an unsigned contract")

	res = f.validator.Validate(ctx, EntityEvent, Payload{"contract_id": f.signedContractID})
	assert.True(t, res.IsValid())
}

func TestNegativeAmountsAreRejected(t *testing.T) {
	f := newValidatorFixture(t)
	ctx := context.Background()

	res := f.validator.Validate(ctx, EntityContract, Payload{"costing": -1.0})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "costing: value must be at least 0")

	res = f.validator.Validate(ctx, EntityEvent, Payload{"attendees": -5})
	require.False(t, res.IsValid())
	assert.Contains(t, res.Messages(), "attendees: value must be at least 0")
}

func TestAsErrorCarriesValidationCodeAndMessages(t *testing.T) {
	f := newValidatorFixture(t)

	res := f.validator.Validate(context.Background(), EntityCollaborator, Payload{"role": "INTERN"})
	err := res.AsError()
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.CodeValidationFailed))

	de := util.ToDomainError(err)
	msgs, ok := de.Details["errors"].([]string)
	require.True(t, ok)
	assert.Contains(t, msgs, "role: unknown role, must be one of SALES, SUPPORT, MANAGEMENT")
}

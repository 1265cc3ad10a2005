package validation

import (
	"context"
	"fmt"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

// EntityType selects the field rule table applied to a payload.
type EntityType int

const (
	EntityClient EntityType = iota
	EntityCollaborator
	EntityContract
	EntityEvent
)

// FieldError is one accumulated validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result is the ordered list of validation failures; empty means valid.
type Result struct {
	Errors []FieldError
}

// IsValid reports whether no rule failed.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Messages renders the failures as "field: message" lines.
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return out
}

// AsError converts the result into a VALIDATION_FAILED domain error, or nil
// when valid.
func (r *Result) AsError() error {
	if r.IsValid() {
		return nil
	}
	return util.NewValidationFailed(map[string]any{"errors": r.Messages()})
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validator runs per-entity field rules over a payload. It never mutates
// data; it only accumulates errors. Foreign-key rules look records up in
// the store.
type Validator struct {
	store repository.Store
}

// NewValidator builds the validator.
func NewValidator(store repository.Store) *Validator {
	return &Validator{store: store}
}

// Validate applies the rule table of the entity type. Fields absent from
// the payload are skipped so edit commands can omit unchanged fields.
func (v *Validator) Validate(ctx context.Context, entity EntityType, data Payload) *Result {
	res := &Result{}
	switch entity {
	case EntityClient:
		v.validateClient(ctx, data, res)
	case EntityCollaborator:
		v.validateCollaborator(ctx, data, res)
	case EntityContract:
		v.validateContract(ctx, data, res)
	case EntityEvent:
		v.validateEvent(ctx, data, res)
	}
	return res
}

func (v *Validator) validateClient(ctx context.Context, data Payload, res *Result) {
	if s, ok := stringField(res, data, "first_name"); ok {
		checkString(res, "first_name", s, 30)
	}
	if s, ok := stringField(res, data, "last_name"); ok {
		checkString(res, "last_name", s, 30)
	}
	if s, ok := stringField(res, data, "email"); ok {
		checkEmail(res, "email", s)
	}
	if s, ok := stringField(res, data, "phone"); ok {
		checkPhone(res, "phone", s)
	}
	if s, ok := stringField(res, data, "company_name"); ok {
		checkString(res, "company_name", s, 50)
	}
	if s, ok := stringField(res, data, "first_contact_date"); ok {
		checkDateTime(res, "first_contact_date", s)
	}
	if s, ok := stringField(res, data, "last_contact_date"); ok {
		checkDateTime(res, "last_contact_date", s)
	}
	if n, ok := intField(res, data, "commercial_id"); ok {
		v.checkStaffReference(ctx, res, "commercial_id", n, domain.RoleSales)
	}
}

func (v *Validator) validateCollaborator(_ context.Context, data Payload, res *Result) {
	if s, ok := stringField(res, data, "first_name"); ok {
		checkString(res, "first_name", s, 30)
	}
	if s, ok := stringField(res, data, "last_name"); ok {
		checkString(res, "last_name", s, 30)
	}
	if s, ok := stringField(res, data, "email"); ok {
		checkEmail(res, "email", s)
	}
	if s, ok := stringField(res, data, "password"); ok {
		checkPassword(res, "password", s)
	}
	if s, ok := stringField(res, data, "role"); ok {
		checkRole(res, "role", s)
	}
}

func (v *Validator) validateContract(ctx context.Context, data Payload, res *Result) {
	if f, ok := floatField(res, data, "costing"); ok {
		checkNonNegative(res, "costing", f)
	}
	if f, ok := floatField(res, data, "remaining_due_payment"); ok {
		checkNonNegative(res, "remaining_due_payment", f)
	}
	boolField(res, data, "is_signed")
	if n, ok := intField(res, data, "client_id"); ok {
		v.checkClientReference(ctx, res, "client_id", n)
	}
	if n, ok := intField(res, data, "commercial_id"); ok {
		v.checkStaffReference(ctx, res, "commercial_id", n, domain.RoleSales)
	}
}

func (v *Validator) validateEvent(ctx context.Context, data Payload, res *Result) {
	if s, ok := stringField(res, data, "name"); ok {
		checkString(res, "name", s, 50)
	}
	if s, ok := stringField(res, data, "start_date"); ok {
		checkDateTime(res, "start_date", s)
	}
	if s, ok := stringField(res, data, "end_date"); ok {
		checkDateTime(res, "end_date", s)
	}
	if s, ok := stringField(res, data, "location"); ok {
		checkAddress(res, "location", s)
	}
	if n, ok := intField(res, data, "attendees"); ok {
		checkNonNegative(res, "attendees", float64(n))
	}
	if s, ok := stringField(res, data, "notes"); ok {
		checkString(res, "notes", s, 100000)
	}
	if n, ok := intField(res, data, "contract_id"); ok {
		v.checkContractReference(ctx, res, "contract_id", n)
	}
	if n, ok := intField(res, data, "support_id"); ok {
		v.checkStaffReference(ctx, res, "support_id", n, domain.RoleSupport)
	}
}

// Typed accessors: a present field of the wrong type is a validation error
// and its rule is skipped.

func stringField(res *Result, data Payload, field string) (string, bool) {
	if !data.Has(field) {
		return "", false
	}
	s, ok := data.String(field)
	if !ok {
		res.add(field, fmt.Sprintf("expected type string, got %T", data[field]))
		return "", false
	}
	return s, true
}

func intField(res *Result, data Payload, field string) (int, bool) {
	if !data.Has(field) {
		return 0, false
	}
	n, ok := data.Int(field)
	if !ok {
		res.add(field, fmt.Sprintf("expected type int, got %T", data[field]))
		return 0, false
	}
	return n, true
}

func floatField(res *Result, data Payload, field string) (float64, bool) {
	if !data.Has(field) {
		return 0, false
	}
	f, ok := data.Float(field)
	if !ok {
		res.add(field, fmt.Sprintf("expected type float, got %T", data[field]))
		return 0, false
	}
	return f, true
}

func boolField(res *Result, data Payload, field string) (bool, bool) {
	if !data.Has(field) {
		return false, false
	}
	b, ok := data.Bool(field)
	if !ok {
		res.add(field, fmt.Sprintf("expected type bool, got %T", data[field]))
		return false, false
	}
	return b, true
}

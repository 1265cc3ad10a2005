package validation

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/pkg/util"
)

// dateTimeLayout is the strict input format for date fields.
const dateTimeLayout = "02/01/2006-15h04"

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phonePattern   = regexp.MustCompile(`^(\+?[0-9]{1,4}[\s\-]?)?(\(?[0-9]{1,5}\)?[\s\-]?[0-9]{1,5}[\s\-]?[0-9]{1,5})+$`)
	addressPattern = regexp.MustCompile(`^\d+\s+[-\w\s]+,\s+\d+\s+[-\w\s]+,\s+[-\w\s-]+$`)

	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func checkString(res *Result, field, value string, maxLen int) {
	if len(value) > maxLen {
		res.add(field, fmt.Sprintf("value must not exceed %d characters", maxLen))
	}
}

func checkEmail(res *Result, field, value string) {
	checkString(res, field, value, 30)
	if !emailPattern.MatchString(value) {
		res.add(field, "invalid email format")
	}
}

func checkPhone(res *Result, field, value string) {
	checkString(res, field, value, 20)
	if !phonePattern.MatchString(value) {
		res.add(field, "invalid phone number format, expected formats include '+44 20 7946 0958', '+33 1 70 18 99 87' or '(030) 12345678'")
	}
}

func checkAddress(res *Result, field, value string) {
	checkString(res, field, value, 100)
	if !addressPattern.MatchString(value) {
		res.add(field, "invalid address format, expected format: '<street number> <street name>, <city postal code>, <country>'")
	}
}

func checkPassword(res *Result, field, value string) {
	checkString(res, field, value, 40)
	if len(value) < 8 {
		res.add(field, "password must be at least 8 characters long")
	}
	if !upperPattern.MatchString(value) {
		res.add(field, "password must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(value) {
		res.add(field, "password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(value) {
		res.add(field, "password must contain at least one number")
	}
	if !symbolPattern.MatchString(value) {
		res.add(field, "password must contain at least one special character")
	}
}

// checkDateTime rejects both malformed strings and impossible calendar
// dates; time.Parse catches 31/02 style inputs.
func checkDateTime(res *Result, field, value string) {
	checkString(res, field, value, 20)
	if _, err := time.Parse(dateTimeLayout, value); err != nil {
		res.add(field, "invalid datetime format, expected format: DD/MM/YYYY-HHhMM")
	}
}

func checkNonNegative(res *Result, field string, value float64) {
	if value < 0 {
		res.add(field, "value must be at least 0")
	}
}

func checkRole(res *Result, field, value string) {
	if _, ok := domain.ParseRole(value); !ok {
		res.add(field, "unknown role, must be one of SALES, SUPPORT, MANAGEMENT")
	}
}

// Foreign-key rules. Lookup failures other than not-found are recorded as
// lookup errors so the command still reports something actionable.

func (v *Validator) checkClientReference(ctx context.Context, res *Result, field string, id int) {
	checkNonNegative(res, field, float64(id))
	if _, err := v.store.Clients().GetByID(ctx, id); err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			res.add(field, "no such entry registered in the database")
			return
		}
		res.add(field, "lookup failed")
	}
}

func (v *Validator) checkStaffReference(ctx context.Context, res *Result, field string, id int, role domain.StaffRole) {
	checkNonNegative(res, field, float64(id))
	staff, err := v.store.Staff().GetByID(ctx, id)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			res.add(field, "no such entry registered in the database")
			return
		}
		res.add(field, "lookup failed")
		return
	}
	if staff.Role != role {
		res.add(field, "the given collaborator is not of the authorized role")
	}
}

func (v *Validator) checkContractReference(ctx context.Context, res *Result, field string, id int) {
	checkNonNegative(res, field, float64(id))
	contract, err := v.store.Contracts().GetByID(ctx, id)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			res.add(field, "no such entry registered in the database")
			return
		}
		res.add(field, "lookup failed")
		return
	}
	if !contract.Signed {
		res.add(field, "it is not allowed to create an event for an unsigned contract")
	}
}

package domain

import (
	"time"

	"github.com/spec-kit/crm-access/internal/query"
)

// Per-entity schema tables consulted by listings. Field names match the
// column names exposed to operators on the command line; the canonical name
// for the contract signature flag is is_signed.

var ClientSchema = query.Schema[Client]{
	{Name: "id", Kind: query.KindInt, Value: func(c Client) any { return c.ID }},
	{Name: "first_name", Kind: query.KindText, Value: func(c Client) any { return c.FirstName }},
	{Name: "last_name", Kind: query.KindText, Value: func(c Client) any { return c.LastName }},
	{Name: "email", Kind: query.KindText, Value: func(c Client) any { return c.Email }},
	{Name: "phone", Kind: query.KindText, Value: func(c Client) any { return c.Phone }},
	{Name: "company_name", Kind: query.KindText, Value: func(c Client) any { return c.CompanyName }},
	{Name: "first_contact_date", Kind: query.KindDateTime, Value: func(c Client) any { return c.FirstContactDate }},
	{Name: "last_contact_date", Kind: query.KindDateTime, Value: func(c Client) any {
		if c.LastContactDate == nil {
			return time.Time{}
		}
		return *c.LastContactDate
	}},
	{Name: "commercial_id", Kind: query.KindInt, Value: func(c Client) any { return c.CommercialID }},
}

var StaffSchema = query.Schema[StaffMember]{
	{Name: "id", Kind: query.KindInt, Value: func(s StaffMember) any { return s.ID }},
	{Name: "first_name", Kind: query.KindText, Value: func(s StaffMember) any { return s.FirstName }},
	{Name: "last_name", Kind: query.KindText, Value: func(s StaffMember) any { return s.LastName }},
	{Name: "email", Kind: query.KindText, Value: func(s StaffMember) any { return s.Email }},
	{Name: "role", Kind: query.KindText, Value: func(s StaffMember) any { return string(s.Role) }},
}

var ContractSchema = query.Schema[Contract]{
	{Name: "id", Kind: query.KindInt, Value: func(c Contract) any { return c.ID }},
	{Name: "client_id", Kind: query.KindInt, Value: func(c Contract) any { return c.ClientID }},
	{Name: "commercial_id", Kind: query.KindInt, Value: func(c Contract) any { return c.CommercialID }},
	{Name: "costing", Kind: query.KindFloat, Value: func(c Contract) any { return c.Costing }},
	{Name: "remaining_due_payment", Kind: query.KindFloat, Value: func(c Contract) any { return c.RemainingDuePayment }},
	{Name: "creation_date", Kind: query.KindDateTime, Value: func(c Contract) any { return c.CreationDate }},
	{Name: "is_signed", Kind: query.KindBool, Value: func(c Contract) any { return c.Signed }},
}

var EventSchema = query.Schema[Event]{
	{Name: "id", Kind: query.KindInt, Value: func(e Event) any { return e.ID }},
	{Name: "name", Kind: query.KindText, Value: func(e Event) any { return e.Name }},
	{Name: "start_date", Kind: query.KindDateTime, Value: func(e Event) any { return e.StartDate }},
	{Name: "end_date", Kind: query.KindDateTime, Value: func(e Event) any { return e.EndDate }},
	{Name: "location", Kind: query.KindText, Value: func(e Event) any { return e.Location }},
	{Name: "attendees", Kind: query.KindInt, Value: func(e Event) any { return e.Attendees }},
	{Name: "notes", Kind: query.KindText, Value: func(e Event) any { return e.Notes }},
	{Name: "contract_id", Kind: query.KindInt, Value: func(e Event) any { return e.ContractID }},
	{Name: "support_id", Kind: query.KindInt, Value: func(e Event) any {
		if e.SupportID == nil {
			return 0
		}
		return *e.SupportID
	}},
}

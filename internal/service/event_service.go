package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/query"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/internal/validation"
)

// EventService guards and performs event record operations.
type EventService struct {
	store     repository.Store
	guard     *auth.Guard
	validator *validation.Validator
	logger    *zap.Logger
}

// NewEventService builds the service.
func NewEventService(store repository.Store, guard *auth.Guard, validator *validation.Validator, logger *zap.Logger) *EventService {
	return &EventService{store: store, guard: guard, validator: validator, logger: logger}
}

// Create adds an event. SALES only, and only for a signed contract whose
// client is assigned to the actor.
func (s *EventService) Create(ctx context.Context, data validation.Payload) (*domain.Event, error) {
	var out *domain.Event
	req := auth.Requirement{
		Roles:        []domain.StaffRole{domain.RoleSales},
		Relationship: auth.RelationCollaboratorContract,
	}
	params := auth.ActionParams{}
	if contractID, ok := data.Int("contract_id"); ok {
		params.ContractID = &contractID
	}

	err := s.guard.RequireRole(ctx, req, 0, params, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityEvent, data).AsError(); err != nil {
			return err
		}

		event := &domain.Event{}
		applyEventPayload(event, data)

		if err := s.store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.Events().Create(ctx, event)
		}); err != nil {
			return err
		}

		s.logger.Info("event created", zap.Int("event_id", event.ID), zap.Int("contract_id", event.ContractID))
		out = event
		return nil
	})
	return out, err
}

// Get returns one event. SUPPORT only.
func (s *EventService) Get(ctx context.Context, id int) (*domain.Event, error) {
	var out *domain.Event
	err := s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleSupport}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		event, err := s.store.Events().GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = event
		return nil
	})
	return out, err
}

// List returns events for any authenticated actor. Filtering is permitted
// to MANAGEMENT and SUPPORT.
func (s *EventService) List(ctx context.Context, filterField, filterValue string) ([]domain.Event, error) {
	var out []domain.Event
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		field, value := gateFilter(s.logger, actor,
			[]domain.StaffRole{domain.RoleManagement, domain.RoleSupport},
			"events", filterField, filterValue)

		events, err := s.store.Events().List(ctx)
		if err != nil {
			return err
		}
		out, err = query.Apply(domain.EventSchema, events, field, value)
		return err
	})
	return out, err
}

// Update edits an event. MANAGEMENT or SUPPORT.
func (s *EventService) Update(ctx context.Context, id int, data validation.Payload) (*domain.Event, error) {
	var out *domain.Event
	req := auth.Requirement{Roles: []domain.StaffRole{domain.RoleManagement, domain.RoleSupport}}
	err := s.guard.RequireRole(ctx, req, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityEvent, data).AsError(); err != nil {
			return err
		}

		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			event, err := tx.Events().GetByID(ctx, id)
			if err != nil {
				return err
			}
			applyEventPayload(event, data)
			if err := tx.Events().Update(ctx, event); err != nil {
				return err
			}
			s.logger.Info("event updated", zap.Int("event_id", id))
			out = event
			return nil
		})
	})
	return out, err
}

// Delete removes an event. SALES only.
func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleSales}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			if err := tx.Events().Delete(ctx, id); err != nil {
				return err
			}
			s.logger.Info("event deleted", zap.Int("event_id", id))
			return nil
		})
	})
}

func applyEventPayload(event *domain.Event, data validation.Payload) {
	if v, ok := data.String("name"); ok {
		event.Name = v
	}
	if v, ok := data.String("start_date"); ok {
		if t, err := time.Parse(query.DateTimeLayout, v); err == nil {
			event.StartDate = t
		}
	}
	if v, ok := data.String("end_date"); ok {
		if t, err := time.Parse(query.DateTimeLayout, v); err == nil {
			event.EndDate = t
		}
	}
	if v, ok := data.String("location"); ok {
		event.Location = v
	}
	if v, ok := data.Int("attendees"); ok {
		event.Attendees = v
	}
	if v, ok := data.String("notes"); ok {
		event.Notes = v
	}
	if v, ok := data.Int("contract_id"); ok {
		event.ContractID = v
	}
	if v, ok := data.Int("support_id"); ok {
		event.SupportID = &v
	}
}

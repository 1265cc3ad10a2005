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

// ClientService guards and performs client record operations.
type ClientService struct {
	store     repository.Store
	guard     *auth.Guard
	validator *validation.Validator
	logger    *zap.Logger
}

// NewClientService builds the service.
func NewClientService(store repository.Store, guard *auth.Guard, validator *validation.Validator, logger *zap.Logger) *ClientService {
	return &ClientService{store: store, guard: guard, validator: validator, logger: logger}
}

// Create adds a client. SALES only; the new client is owned by the acting
// collaborator regardless of payload content.
func (s *ClientService) Create(ctx context.Context, data validation.Payload) (*domain.Client, error) {
	var out *domain.Client
	err := s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleSales}}, 0, auth.ActionParams{}, func(actor *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityClient, data).AsError(); err != nil {
			return err
		}

		client := &domain.Client{}
		applyClientPayload(client, data)
		// New clients are always owned by the acting SALES collaborator.
		client.CommercialID = actor.ID

		if err := s.store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.Clients().Create(ctx, client)
		}); err != nil {
			return err
		}

		s.logger.Info("client created", zap.Int("client_id", client.ID), zap.Int("commercial_id", actor.ID))
		out = client
		return nil
	})
	return out, err
}

// Get returns one client. SALES only, restricted to assigned clients.
func (s *ClientService) Get(ctx context.Context, id int) (*domain.Client, error) {
	var out *domain.Client
	req := auth.Requirement{
		Roles:        []domain.StaffRole{domain.RoleSales},
		Relationship: auth.RelationCollaboratorClient,
	}
	err := s.guard.RequireRole(ctx, req, id, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		client, err := s.store.Clients().GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = client
		return nil
	})
	return out, err
}

// List returns clients for any authenticated actor, optionally filtered and
// sorted. Filtering is permitted to MANAGEMENT and SALES.
func (s *ClientService) List(ctx context.Context, filterField, filterValue string) ([]domain.Client, error) {
	var out []domain.Client
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		field, value := gateFilter(s.logger, actor,
			[]domain.StaffRole{domain.RoleManagement, domain.RoleSales},
			"clients", filterField, filterValue)

		clients, err := s.store.Clients().List(ctx)
		if err != nil {
			return err
		}
		out, err = query.Apply(domain.ClientSchema, clients, field, value)
		return err
	})
	return out, err
}

// Update edits a client. SALES only, restricted to assigned clients; absent
// payload fields are left unchanged.
func (s *ClientService) Update(ctx context.Context, id int, data validation.Payload) (*domain.Client, error) {
	var out *domain.Client
	req := auth.Requirement{
		Roles:        []domain.StaffRole{domain.RoleSales},
		Relationship: auth.RelationCollaboratorClient,
	}
	err := s.guard.RequireRole(ctx, req, id, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityClient, data).AsError(); err != nil {
			return err
		}

		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			client, err := tx.Clients().GetByID(ctx, id)
			if err != nil {
				return err
			}
			applyClientPayload(client, data)
			if err := tx.Clients().Update(ctx, client); err != nil {
				return err
			}
			s.logger.Info("client updated", zap.Int("client_id", id))
			out = client
			return nil
		})
	})
	return out, err
}

// Delete removes a client. SALES only, restricted to assigned clients.
func (s *ClientService) Delete(ctx context.Context, id int) error {
	req := auth.Requirement{
		Roles:        []domain.StaffRole{domain.RoleSales},
		Relationship: auth.RelationCollaboratorClient,
	}
	return s.guard.RequireRole(ctx, req, id, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			if err := tx.Clients().Delete(ctx, id); err != nil {
				return err
			}
			s.logger.Info("client deleted", zap.Int("client_id", id))
			return nil
		})
	})
}

func applyClientPayload(client *domain.Client, data validation.Payload) {
	if v, ok := data.String("first_name"); ok {
		client.FirstName = v
	}
	if v, ok := data.String("last_name"); ok {
		client.LastName = v
	}
	if v, ok := data.String("email"); ok {
		client.Email = v
	}
	if v, ok := data.String("phone"); ok {
		client.Phone = v
	}
	if v, ok := data.String("company_name"); ok {
		client.CompanyName = v
	}
	if v, ok := data.String("last_contact_date"); ok {
		if t, err := time.Parse(query.DateTimeLayout, v); err == nil {
			client.LastContactDate = &t
		}
	}
	if v, ok := data.Int("commercial_id"); ok {
		client.CommercialID = v
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/config"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/query"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/internal/validation"
)

// StaffService guards and performs collaborator record operations.
type StaffService struct {
	store      repository.Store
	guard      *auth.Guard
	validator  *validation.Validator
	bcryptCost int
	logger     *zap.Logger
}

// NewStaffService builds the service.
func NewStaffService(cfg config.Config, store repository.Store, guard *auth.Guard, validator *validation.Validator, logger *zap.Logger) *StaffService {
	return &StaffService{
		store:      store,
		guard:      guard,
		validator:  validator,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Create adds a collaborator. MANAGEMENT only.
func (s *StaffService) Create(ctx context.Context, data validation.Payload) (*domain.StaffMember, error) {
	var out *domain.StaffMember
	err := s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleManagement}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityCollaborator, data).AsError(); err != nil {
			return err
		}

		staff := &domain.StaffMember{}
		applyStaffPayload(staff, data)
		if password, ok := data.String("password"); ok {
			hash, err := auth.HashPassword(password, s.bcryptCost)
			if err != nil {
				return err
			}
			staff.PasswordHash = hash
		}

		if err := s.store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.Staff().Create(ctx, staff)
		}); err != nil {
			return err
		}

		s.logger.Info("collaborator created", zap.Int("collaborator_id", staff.ID), zap.String("role", string(staff.Role)))
		out = staff
		return nil
	})
	return out, err
}

// Get returns one collaborator for any authenticated actor.
func (s *StaffService) Get(ctx context.Context, id int) (*domain.StaffMember, error) {
	var out *domain.StaffMember
	err := s.guard.RequireAuthentication(ctx, func(_ *domain.StaffMember) error {
		staff, err := s.store.Staff().GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = staff
		return nil
	})
	return out, err
}

// List returns collaborators for any authenticated actor. Filtering is
// permitted to MANAGEMENT only.
func (s *StaffService) List(ctx context.Context, filterField, filterValue string) ([]domain.StaffMember, error) {
	var out []domain.StaffMember
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		field, value := gateFilter(s.logger, actor,
			[]domain.StaffRole{domain.RoleManagement},
			"collaborators", filterField, filterValue)

		staff, err := s.store.Staff().List(ctx)
		if err != nil {
			return err
		}
		out, err = query.Apply(domain.StaffSchema, staff, field, value)
		return err
	})
	return out, err
}

// Update edits a collaborator. MANAGEMENT only, with the self-edition
// exception: any collaborator may edit their own record. Password changes
// go through UpdatePassword.
func (s *StaffService) Update(ctx context.Context, id int, data validation.Payload) (*domain.StaffMember, error) {
	var out *domain.StaffMember
	req := auth.Requirement{
		Roles:                []domain.StaffRole{domain.RoleManagement},
		SelfEditionException: true,
	}
	err := s.guard.RequireRole(ctx, req, id, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityCollaborator, data).AsError(); err != nil {
			return err
		}

		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			staff, err := tx.Staff().GetByID(ctx, id)
			if err != nil {
				return err
			}
			applyStaffPayload(staff, data)
			if err := tx.Staff().Update(ctx, staff); err != nil {
				return err
			}
			s.logger.Info("collaborator updated", zap.Int("collaborator_id", id))
			out = staff
			return nil
		})
	})
	return out, err
}

// UpdatePassword changes a collaborator's own password; acting on another
// collaborator's id is denied regardless of role.
func (s *StaffService) UpdatePassword(ctx context.Context, id int, password string) error {
	return s.guard.RequireSelf(ctx, id, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityCollaborator, validation.Payload{"password": password}).AsError(); err != nil {
			return err
		}

		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return err
		}

		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			staff, err := tx.Staff().GetByID(ctx, id)
			if err != nil {
				return err
			}
			staff.PasswordHash = hash
			if err := tx.Staff().Update(ctx, staff); err != nil {
				return err
			}
			s.logger.Info("password updated", zap.Int("collaborator_id", id))
			return nil
		})
	})
}

// Delete removes a collaborator. MANAGEMENT only.
func (s *StaffService) Delete(ctx context.Context, id int) error {
	return s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleManagement}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			if err := tx.Staff().Delete(ctx, id); err != nil {
				return err
			}
			s.logger.Info("collaborator deleted", zap.Int("collaborator_id", id))
			return nil
		})
	})
}

func applyStaffPayload(staff *domain.StaffMember, data validation.Payload) {
	if v, ok := data.String("first_name"); ok {
		staff.FirstName = v
	}
	if v, ok := data.String("last_name"); ok {
		staff.LastName = v
	}
	if v, ok := data.String("email"); ok {
		staff.Email = v
	}
	if v, ok := data.String("role"); ok {
		if role, valid := domain.ParseRole(v); valid {
			staff.Role = role
		}
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/query"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/internal/validation"
)

// ContractService guards and performs contract record operations.
//
// Ownership checks run against the client behind the contract: the contract
// is loaded after authentication and its client id becomes the relationship
// target.
type ContractService struct {
	store     repository.Store
	guard     *auth.Guard
	validator *validation.Validator
	logger    *zap.Logger
}

// NewContractService builds the service.
func NewContractService(store repository.Store, guard *auth.Guard, validator *validation.Validator, logger *zap.Logger) *ContractService {
	return &ContractService{store: store, guard: guard, validator: validator, logger: logger}
}

// Create adds a contract. MANAGEMENT only.
func (s *ContractService) Create(ctx context.Context, data validation.Payload) (*domain.Contract, error) {
	var out *domain.Contract
	err := s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleManagement}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		if err := s.validator.Validate(ctx, validation.EntityContract, data).AsError(); err != nil {
			return err
		}

		contract := &domain.Contract{}
		applyContractPayload(contract, data)

		if err := s.store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.Contracts().Create(ctx, contract)
		}); err != nil {
			return err
		}

		s.logger.Info("contract created", zap.Int("contract_id", contract.ID), zap.Int("client_id", contract.ClientID))
		out = contract
		return nil
	})
	return out, err
}

// Get returns one contract. MANAGEMENT or SALES; SALES is restricted to
// contracts whose client is assigned to them.
func (s *ContractService) Get(ctx context.Context, id int) (*domain.Contract, error) {
	var out *domain.Contract
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		contract, err := s.store.Contracts().GetByID(ctx, id)
		if err != nil {
			return err
		}

		req := auth.Requirement{
			Roles:        []domain.StaffRole{domain.RoleManagement, domain.RoleSales},
			Relationship: auth.RelationCollaboratorClient,
		}
		if err := s.guard.Authorize(ctx, actor, req, contract.ClientID, auth.ActionParams{}); err != nil {
			return err
		}
		out = contract
		return nil
	})
	return out, err
}

// List returns contracts for any authenticated actor. Filtering is
// permitted to MANAGEMENT and SALES.
func (s *ContractService) List(ctx context.Context, filterField, filterValue string) ([]domain.Contract, error) {
	var out []domain.Contract
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		field, value := gateFilter(s.logger, actor,
			[]domain.StaffRole{domain.RoleManagement, domain.RoleSales},
			"contracts", filterField, filterValue)

		contracts, err := s.store.Contracts().List(ctx)
		if err != nil {
			return err
		}
		out, err = query.Apply(domain.ContractSchema, contracts, field, value)
		return err
	})
	return out, err
}

// Update edits a contract. MANAGEMENT or SALES with client ownership.
func (s *ContractService) Update(ctx context.Context, id int, data validation.Payload) (*domain.Contract, error) {
	var out *domain.Contract
	err := s.guard.RequireAuthentication(ctx, func(actor *domain.StaffMember) error {
		contract, err := s.store.Contracts().GetByID(ctx, id)
		if err != nil {
			return err
		}

		req := auth.Requirement{
			Roles:        []domain.StaffRole{domain.RoleManagement, domain.RoleSales},
			Relationship: auth.RelationCollaboratorClient,
		}
		if err := s.guard.Authorize(ctx, actor, req, contract.ClientID, auth.ActionParams{}); err != nil {
			return err
		}
		if err := s.validator.Validate(ctx, validation.EntityContract, data).AsError(); err != nil {
			return err
		}

		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			applyContractPayload(contract, data)
			if err := tx.Contracts().Update(ctx, contract); err != nil {
				return err
			}
			s.logger.Info("contract updated", zap.Int("contract_id", id))
			out = contract
			return nil
		})
	})
	return out, err
}

// Delete removes a contract. MANAGEMENT only.
func (s *ContractService) Delete(ctx context.Context, id int) error {
	return s.guard.RequireRole(ctx, auth.Requirement{Roles: []domain.StaffRole{domain.RoleManagement}}, 0, auth.ActionParams{}, func(_ *domain.StaffMember) error {
		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			if err := tx.Contracts().Delete(ctx, id); err != nil {
				return err
			}
			s.logger.Info("contract deleted", zap.Int("contract_id", id))
			return nil
		})
	})
}

func applyContractPayload(contract *domain.Contract, data validation.Payload) {
	if v, ok := data.Float("costing"); ok {
		contract.Costing = v
	}
	if v, ok := data.Float("remaining_due_payment"); ok {
		contract.RemainingDuePayment = v
	}
	if v, ok := data.Bool("is_signed"); ok {
		contract.Signed = v
	}
	if v, ok := data.Int("client_id"); ok {
		contract.ClientID = v
	}
	if v, ok := data.Int("commercial_id"); ok {
		contract.CommercialID = v
	}
}

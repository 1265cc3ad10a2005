package auth

import (
	"context"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/pkg/util"
)

func (g *Guard) checkRelationship(ctx context.Context, actor *domain.StaffMember, kind RelationshipKind, targetID int, params ActionParams) error {
	switch kind {
	case RelationCollaboratorClient:
		return g.checkClientOwnership(ctx, actor, targetID)
	case RelationCollaboratorContract:
		return g.checkContractOwnership(ctx, actor, params)
	}
	return nil
}

// checkClientOwnership denies unless the target client is assigned to the
// actor.
func (g *Guard) checkClientOwnership(ctx context.Context, actor *domain.StaffMember, clientID int) error {
	client, err := g.store.Clients().GetByID(ctx, clientID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return util.NewRelationViolation("permission denied: you can only interact with assigned clients")
		}
		return err
	}
	if client.CommercialID != actor.ID {
		return util.NewRelationViolation("permission denied: you can only interact with assigned clients")
	}
	return nil
}

// checkContractOwnership gates event creation. Ordering matters: existence
// before signed before ownership, each with its own message.
func (g *Guard) checkContractOwnership(ctx context.Context, actor *domain.StaffMember, params ActionParams) error {
	if params.ContractID == nil {
		return util.NewMissingRelation("the contract_id field is mandatory")
	}

	contract, err := g.store.Contracts().GetByID(ctx, *params.ContractID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return util.NewNotFound("contract")
		}
		return err
	}
	if !contract.Signed {
		return util.NewRelationViolation("permission denied: only signed contracts allow event creation")
	}

	client, err := g.store.Clients().GetByID(ctx, contract.ClientID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return util.NewRelationViolation("permission denied: you can only create events for assigned clients")
		}
		return err
	}
	if client.CommercialID != actor.ID {
		return util.NewRelationViolation("permission denied: you can only create events for assigned clients")
	}
	return nil
}

package auth

import (
	"context"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

// RelationshipKind selects the ownership rule evaluated on top of the role
// check. Relationship checks only apply to SALES actors.
type RelationshipKind int

const (
	RelationNone RelationshipKind = iota
	RelationCollaboratorClient
	RelationCollaboratorContract
)

// Requirement describes who may perform an action.
type Requirement struct {
	Roles                []domain.StaffRole
	SelfEditionException bool
	Relationship         RelationshipKind
}

// ActionParams carries action inputs relationship checks depend on.
type ActionParams struct {
	ContractID *int
}

// Action is the guarded callable. It only runs once the actor is resolved
// and authorized.
type Action func(actor *domain.StaffMember) error

// Guard evaluates role requirements and relationship constraints before
// allowing an action.
type Guard struct {
	resolver *Resolver
	store    repository.Store
}

// NewGuard builds the guard.
func NewGuard(resolver *Resolver, store repository.Store) *Guard {
	return &Guard{resolver: resolver, store: store}
}

// RequireAuthentication runs the action for any authenticated actor.
func (g *Guard) RequireAuthentication(ctx context.Context, action Action) error {
	actor, err := g.resolver.CurrentActor(ctx)
	if err != nil {
		return err
	}
	return action(actor)
}

// RequireSelf runs the action only when the actor is the target
// collaborator.
func (g *Guard) RequireSelf(ctx context.Context, targetID int, action Action) error {
	actor, err := g.resolver.CurrentActor(ctx)
	if err != nil {
		return err
	}
	if actor.ID != targetID {
		return util.NewPermissionDenied("permission denied")
	}
	return action(actor)
}

// RequireRole resolves the actor, applies the requirement and runs the
// action. The self-edition exception is evaluated before the role gate so
// an actor outside the role set can still act on their own record.
func (g *Guard) RequireRole(ctx context.Context, req Requirement, targetID int, params ActionParams, action Action) error {
	actor, err := g.resolver.CurrentActor(ctx)
	if err != nil {
		return err
	}
	if req.SelfEditionException && actor.ID == targetID {
		return action(actor)
	}
	if err := g.Authorize(ctx, actor, req, targetID, params); err != nil {
		return err
	}
	return action(actor)
}

// Authorize applies the role gate then the relationship gate to an already
// resolved actor. Callers that must load the target record to learn the
// relationship subject (a contract's client) resolve first, load, then
// authorize.
func (g *Guard) Authorize(ctx context.Context, actor *domain.StaffMember, req Requirement, targetID int, params ActionParams) error {
	if !roleAllowed(actor.Role, req.Roles) {
		return util.NewPermissionDenied("permission denied")
	}
	if req.Relationship != RelationNone && actor.Role == domain.RoleSales {
		return g.checkRelationship(ctx, actor, req.Relationship, targetID, params)
	}
	return nil
}

func roleAllowed(role domain.StaffRole, allowed []domain.StaffRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

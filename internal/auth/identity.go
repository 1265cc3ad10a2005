package auth

import (
	"context"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

// Resolver turns the stored token into an authenticated actor. Every
// failure path carries a specific, user-presentable reason.
type Resolver struct {
	cache  CredentialCache
	tokens *TokenManager
	store  repository.Store
}

// NewResolver builds the resolver.
func NewResolver(cache CredentialCache, tokens *TokenManager, store repository.Store) *Resolver {
	return &Resolver{cache: cache, tokens: tokens, store: store}
}

// CurrentActor resolves the collaborator behind the stored token. Checks
// run in order: stored token, signature/expiry, revocation, staff lookup.
// No step is skipped.
func (r *Resolver) CurrentActor(ctx context.Context) (*domain.StaffMember, error) {
	token, err := r.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, util.NewNoSession("no stored authentication token, please log in first")
	}

	subjectID, err := r.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	revoked, err := r.store.RevokedTokens().IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, util.NewTokenRevoked()
	}

	actor, err := r.store.Staff().GetByID(ctx, subjectID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, util.NewUnknownSubject()
		}
		return nil, err
	}
	return actor, nil
}

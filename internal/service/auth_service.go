package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/config"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

// AuthService coordinates login and logout for the local operator.
type AuthService struct {
	store  repository.Store
	tokens *auth.TokenManager
	cache  auth.CredentialCache
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, store repository.Store, cache auth.CredentialCache, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours),
		cache:  cache,
		logger: logger,
	}
}

// TokenManager exposes the underlying token manager for resolver wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login authenticates a collaborator by email and password, issues a token
// and stores it as the current credential. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.StaffMember, error) {
	staff, err := s.store.Staff().GetByEmail(ctx, email)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, util.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, util.NewInvalidCredentials()
	}

	token, err := s.tokens.Issue(staff.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("login", zap.Int("collaborator_id", staff.ID), zap.String("role", string(staff.Role)))
	return staff, nil
}

// Logout revokes the stored token and clears the credential cache. Revoking
// a token that is already revoked reports "already logged out" rather than
// failing; the cache is cleared either way.
func (s *AuthService) Logout(ctx context.Context) error {
	token, err := s.cache.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return util.NewNoSession("no active session found")
	}

	if _, err := s.tokens.Decode(token); err != nil {
		return err
	}

	var already bool
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		var revokeErr error
		already, revokeErr = tx.RevokedTokens().Revoke(ctx, token)
		return revokeErr
	})
	if err != nil {
		return err
	}

	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	if already {
		return util.NewConflict("already logged out")
	}

	s.logger.Info("logout")
	return nil
}

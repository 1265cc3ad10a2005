package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/crm-access/internal/domain"
)

// DB is the subset of pgx operations repositories rely on. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StaffRepository handles persistence for collaborators.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id int) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	List(ctx context.Context) ([]domain.StaffMember, error)
	Delete(ctx context.Context, id int) error
}

// ClientRepository handles persistence for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Delete(ctx context.Context, id int) error
}

// ContractRepository handles persistence for contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id int) (*domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	Delete(ctx context.Context, id int) error
}

// EventRepository handles persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Delete(ctx context.Context, id int) error
}

// RevokedTokenRepository is the append-only set of revoked tokens.
type RevokedTokenRepository interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Revoke inserts the token. Re-revoking an already present token is a
	// no-op reported through already=true so callers can answer "already
	// logged out" instead of failing.
	Revoke(ctx context.Context, token string) (already bool, err error)
}

// Store bundles all repositories behind one transactional boundary.
type Store interface {
	Staff() StaffRepository
	Clients() ClientRepository
	Contracts() ContractRepository
	Events() EventRepository
	RevokedTokens() RevokedTokenRepository

	// WithinTx runs fn against a store whose repositories share one
	// transaction. The transaction commits when fn returns nil and rolls
	// back otherwise; no retries are performed.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

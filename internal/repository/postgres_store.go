package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-access/pkg/util"
)

type pgxStore struct {
	db   DB
	pool *pgxpool.Pool
}

// NewStore builds the postgres-backed store over a pgx pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgxStore{db: pool, pool: pool}
}

func (s *pgxStore) Staff() StaffRepository                { return &staffRepository{db: s.db} }
func (s *pgxStore) Clients() ClientRepository             { return &clientRepository{db: s.db} }
func (s *pgxStore) Contracts() ContractRepository         { return &contractRepository{db: s.db} }
func (s *pgxStore) Events() EventRepository               { return &eventRepository{db: s.db} }
func (s *pgxStore) RevokedTokens() RevokedTokenRepository { return &revokedTokenRepository{db: s.db} }

func (s *pgxStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		// Already inside a transaction scope; join it.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return util.NewInternalError(err)
	}

	txStore := &pgxStore{db: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return util.NewInternalError(err)
	}
	return nil
}

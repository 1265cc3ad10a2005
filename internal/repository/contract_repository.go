package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/pkg/util"
)

type contractRepository struct {
	db DB
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	const query = `
        INSERT INTO contracts (client_id, commercial_id, costing, remaining_due_payment, is_signed)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, creation_date`

	return r.db.QueryRow(ctx, query,
		contract.ClientID,
		contract.CommercialID,
		contract.Costing,
		contract.RemainingDuePayment,
		contract.Signed,
	).Scan(&contract.ID, &contract.CreationDate)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	const query = `
        UPDATE contracts
        SET client_id=$1, commercial_id=$2, costing=$3, remaining_due_payment=$4, is_signed=$5
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		contract.ClientID,
		contract.CommercialID,
		contract.Costing,
		contract.RemainingDuePayment,
		contract.Signed,
		contract.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("contract")
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int) (*domain.Contract, error) {
	const query = `
        SELECT id, client_id, commercial_id, costing, remaining_due_payment, creation_date, is_signed
        FROM contracts WHERE id=$1`

	var contract domain.Contract
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&contract.ID,
		&contract.ClientID,
		&contract.CommercialID,
		&contract.Costing,
		&contract.RemainingDuePayment,
		&contract.CreationDate,
		&contract.Signed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("contract")
		}
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	const query = `
        SELECT id, client_id, commercial_id, costing, remaining_due_payment, creation_date, is_signed
        FROM contracts ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := rows.Scan(
			&contract.ID,
			&contract.ClientID,
			&contract.CommercialID,
			&contract.Costing,
			&contract.RemainingDuePayment,
			&contract.CreationDate,
			&contract.Signed,
		); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}

func (r *contractRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("contract")
	}
	return nil
}

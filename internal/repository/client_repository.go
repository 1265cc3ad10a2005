package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/pkg/util"
)

type clientRepository struct {
	db DB
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (first_name, last_name, email, phone, company_name, last_contact_date, commercial_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, first_contact_date`

	return r.db.QueryRow(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.LastContactDate,
		client.CommercialID,
	).Scan(&client.ID, &client.FirstContactDate)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients
        SET first_name=$1, last_name=$2, email=$3, phone=$4, company_name=$5, last_contact_date=$6, commercial_id=$7
        WHERE id=$8`

	cmd, err := r.db.Exec(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.LastContactDate,
		client.CommercialID,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("client")
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int) (*domain.Client, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, company_name, first_contact_date, last_contact_date, commercial_id
        FROM clients WHERE id=$1`

	var client domain.Client
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.CompanyName,
		&client.FirstContactDate,
		&client.LastContactDate,
		&client.CommercialID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("client")
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, company_name, first_contact_date, last_contact_date, commercial_id
        FROM clients ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.FirstName,
			&client.LastName,
			&client.Email,
			&client.Phone,
			&client.CompanyName,
			&client.FirstContactDate,
			&client.LastContactDate,
			&client.CommercialID,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("client")
	}
	return nil
}

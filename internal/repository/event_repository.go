package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/pkg/util"
)

type eventRepository struct {
	db DB
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (name, start_date, end_date, location, attendees, notes, contract_id, support_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`

	return r.db.QueryRow(ctx, query,
		event.Name,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Attendees,
		event.Notes,
		event.ContractID,
		event.SupportID,
	).Scan(&event.ID)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events
        SET name=$1, start_date=$2, end_date=$3, location=$4, attendees=$5, notes=$6, contract_id=$7, support_id=$8
        WHERE id=$9`

	cmd, err := r.db.Exec(ctx, query,
		event.Name,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Attendees,
		event.Notes,
		event.ContractID,
		event.SupportID,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("event")
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int) (*domain.Event, error) {
	const query = `
        SELECT id, name, start_date, end_date, location, attendees, notes, contract_id, support_id
        FROM events WHERE id=$1`

	var event domain.Event
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Attendees,
		&event.Notes,
		&event.ContractID,
		&event.SupportID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("event")
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `
        SELECT id, name, start_date, end_date, location, attendees, notes, contract_id, support_id
        FROM events ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.StartDate,
			&event.EndDate,
			&event.Location,
			&event.Attendees,
			&event.Notes,
			&event.ContractID,
			&event.SupportID,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("event")
	}
	return nil
}

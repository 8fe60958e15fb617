package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bakery-system/internal/domain"
)

type PickupLocations interface {
	Save(ctx context.Context, l domain.PickupLocation) (domain.PickupLocation, error)
	GetByID(ctx context.Context, id int) (domain.PickupLocation, error)
	List(ctx context.Context) ([]domain.PickupLocation, error)
}

type PickupLocationsPG struct{ db *sql.DB }

func NewPickupLocations(db *sql.DB) *PickupLocationsPG { return &PickupLocationsPG{db: db} }

func (r *PickupLocationsPG) Save(ctx context.Context, l domain.PickupLocation) (domain.PickupLocation, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO pickup_locations (name) VALUES ($1) RETURNING id`, l.Name,
	).Scan(&l.ID)
	if err != nil {
		return domain.PickupLocation{}, fmt.Errorf("insert pickup location: %w", err)
	}
	return l, nil
}

func (r *PickupLocationsPG) GetByID(ctx context.Context, id int) (domain.PickupLocation, error) {
	var l domain.PickupLocation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM pickup_locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PickupLocation{}, ErrNotFound
	}
	if err != nil {
		return domain.PickupLocation{}, err
	}
	return l, nil
}

func (r *PickupLocationsPG) List(ctx context.Context) ([]domain.PickupLocation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM pickup_locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pickup locations: %w", err)
	}
	defer rows.Close()

	var out []domain.PickupLocation
	for rows.Next() {
		var l domain.PickupLocation
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bakery-system/internal/domain"
)

type Products interface {
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id int) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type ProductsPG struct{ db *sql.DB }

func NewProducts(db *sql.DB) *ProductsPG { return &ProductsPG{db: db} }

func (r *ProductsPG) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO products (name, price_cents) VALUES ($1, $2) RETURNING id
`, p.Name, p.Price).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *ProductsPG) GetByID(ctx context.Context, id int) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price_cents FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductsPG) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price_cents FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductsPG) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

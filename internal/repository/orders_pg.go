package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery-system/internal/domain"
)

// OrderFilter narrows List by due date; zero values mean "no bound".
type OrderFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type Orders interface {
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, id int) (domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	ChangeStatus(ctx context.Context, orderID, actorID int, state domain.OrderState, message string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type OrdersPG struct{ db *sql.DB }

func NewOrders(db *sql.DB) *OrdersPG { return &OrdersPG{db: db} }

// Save persists the order, its items and its history trail in one
// transaction. The referenced users, products and pickup location must
// already exist.
func (r *OrdersPG) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
INSERT INTO orders
    (barista_id, customer_name, customer_phone, customer_details,
     pickup_location_id, due_date, due_time, state)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`, o.Barista.ID, o.Customer.FullName, o.Customer.PhoneNumber, o.Customer.Details,
		o.Location.ID, o.DueDate, o.DueTime.String(), string(o.State)).Scan(&o.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		err = tx.QueryRowContext(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, comment)
VALUES ($1, $2, $3, $4)
RETURNING id
`, o.ID, item.Product.ID, item.Quantity, item.Comment).Scan(&item.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order item %q: %w", item.Product.Name, err)
		}
	}

	for i := range o.History {
		h := &o.History[i]
		err = tx.QueryRowContext(ctx, `
INSERT INTO order_history (order_id, actor_id, message, new_state, occurred_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, o.ID, h.ActorID, h.Message, string(h.NewState), h.Timestamp).Scan(&h.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert history item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit transaction: %w", err)
	}
	return o, nil
}

func (r *OrdersPG) GetByID(ctx context.Context, id int) (domain.Order, error) {
	var (
		o       domain.Order
		state   string
		dueTime string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT o.id, o.customer_name, o.customer_phone, o.customer_details,
       o.due_date, o.due_time, o.state,
       u.id, u.email, u.first_name, u.last_name,
       l.id, l.name
FROM orders o
JOIN users u ON u.id = o.barista_id
JOIN pickup_locations l ON l.id = o.pickup_location_id
WHERE o.id = $1
`, id).Scan(&o.ID, &o.Customer.FullName, &o.Customer.PhoneNumber, &o.Customer.Details,
		&o.DueDate, &dueTime, &state,
		&o.Barista.ID, &o.Barista.Email, &o.Barista.FirstName, &o.Barista.LastName,
		&o.Location.ID, &o.Location.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.State = domain.OrderState(state)
	if o.DueTime, err = domain.ParseTimeOfDay(dueTime); err != nil {
		return domain.Order{}, err
	}

	if o.Items, err = r.itemsFor(ctx, id); err != nil {
		return domain.Order{}, err
	}
	if o.History, err = r.historyFor(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrdersPG) itemsFor(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT i.id, i.quantity, i.comment, p.id, p.name, p.price_cents
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = $1
ORDER BY i.id
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.Quantity, &it.Comment,
			&it.Product.ID, &it.Product.Name, &it.Product.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrdersPG) historyFor(ctx context.Context, orderID int) ([]domain.HistoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT h.id, h.actor_id, u.first_name || ' ' || u.last_name, h.message, h.new_state, h.occurred_at
FROM order_history h
JOIN users u ON u.id = h.actor_id
WHERE h.order_id = $1
ORDER BY h.id
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryItem
	for rows.Next() {
		var h domain.HistoryItem
		var state string
		if err := rows.Scan(&h.ID, &h.ActorID, &h.ActorName, &h.Message, &state, &h.Timestamp); err != nil {
			return nil, err
		}
		h.NewState = domain.OrderState(state)
		out = append(out, h)
	}
	return out, rows.Err()
}

// List returns order heads (no items or history) matching the filter,
// newest due date first.
func (r *OrdersPG) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	query := `
SELECT o.id, o.customer_name, o.customer_phone, o.customer_details,
       o.due_date, o.due_time, o.state,
       u.id, u.email, u.first_name, u.last_name,
       l.id, l.name
FROM orders o
JOIN users u ON u.id = o.barista_id
JOIN pickup_locations l ON l.id = o.pickup_location_id
WHERE 1=1`
	args := []any{}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND o.due_date >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND o.due_date <= $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY o.due_date DESC, o.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o       domain.Order
			state   string
			dueTime string
		)
		if err := rows.Scan(&o.ID, &o.Customer.FullName, &o.Customer.PhoneNumber, &o.Customer.Details,
			&o.DueDate, &dueTime, &state,
			&o.Barista.ID, &o.Barista.Email, &o.Barista.FirstName, &o.Barista.LastName,
			&o.Location.ID, &o.Location.Name); err != nil {
			return nil, err
		}
		o.State = domain.OrderState(state)
		if o.DueTime, err = domain.ParseTimeOfDay(dueTime); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ChangeStatus updates the order state and appends the matching history
// entry in one transaction.
func (r *OrdersPG) ChangeStatus(ctx context.Context, orderID, actorID int, state domain.OrderState, message string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET state = $2, updated_at = NOW() WHERE id = $1`,
		orderID, string(state))
	if err != nil {
		return fmt.Errorf("update order state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO order_history (order_id, actor_id, message, new_state, occurred_at)
VALUES ($1, $2, $3, $4, $5)
`, orderID, actorID, message, string(state), at)
	if err != nil {
		return fmt.Errorf("insert history item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *OrdersPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

package domain

import "time"

// OrderStatusChanged is published whenever an order enters a new state.
type OrderStatusChanged struct {
	OrderID    int        `json:"order_id"`
	State      OrderState `json:"state"`
	Message    string     `json:"message,omitempty"`
	ChangedBy  string     `json:"changed_by"`
	OccurredAt time.Time  `json:"occurred_at"`
}

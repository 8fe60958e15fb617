package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleBaker   Role = "BAKER"
	RoleBarista Role = "BARISTA"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBaker, RoleBarista:
		return true
	}
	return false
}

type OrderState string

const (
	StateNew       OrderState = "NEW"
	StateConfirmed OrderState = "CONFIRMED"
	StateReady     OrderState = "READY"
	StateDelivered OrderState = "DELIVERED"
	StateCancelled OrderState = "CANCELLED"
	StateProblem   OrderState = "PROBLEM"
)

func (s OrderState) Valid() bool {
	switch s {
	case StateNew, StateConfirmed, StateReady, StateDelivered, StateCancelled, StateProblem:
		return true
	}
	return false
}

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Locked       bool   `json:"locked"`
}

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

// Product price is kept in integer cents.
type Product struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type PickupLocation struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Customer is embedded in an order, never persisted on its own.
type Customer struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Details     string `json:"details,omitempty"`
}

type OrderItem struct {
	ID       int     `json:"id,omitempty"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Comment  string  `json:"comment,omitempty"`
}

// HistoryItem is one append-only audit entry in an order's trail.
type HistoryItem struct {
	ID        int        `json:"id,omitempty"`
	ActorID   int        `json:"actor_id"`
	ActorName string     `json:"actor_name,omitempty"`
	Message   string     `json:"message"`
	NewState  OrderState `json:"new_state"`
	Timestamp time.Time  `json:"timestamp"`
}

// Order invariants: no two items share a product, and the final history
// entry carries the order's current state.
type Order struct {
	ID       int            `json:"id"`
	Barista  User           `json:"barista"`
	Customer Customer       `json:"customer"`
	Location PickupLocation `json:"pickup_location"`
	DueDate  time.Time      `json:"due_date"`
	DueTime  TimeOfDay      `json:"due_time"`
	State    OrderState     `json:"state"`
	Items    []OrderItem    `json:"items,omitempty"`
	History  []HistoryItem  `json:"history,omitempty"`
}

// DueAt combines the due date and due time into a single instant.
func (o Order) DueAt() time.Time { return o.DueTime.On(o.DueDate) }

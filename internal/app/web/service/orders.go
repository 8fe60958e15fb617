package service

import (
	"context"
	"fmt"
	"time"

	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
)

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if req.CustomerName == "" {
		return domain.Order{}, invalidf("customer name is required")
	}
	if len(req.Items) == 0 {
		return domain.Order{}, invalidf("at least one item is required")
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return domain.Order{}, invalidf("invalid due date %q", req.DueDate)
	}
	dueTime, err := domain.ParseTimeOfDay(req.DueTime)
	if err != nil {
		return domain.Order{}, invalidf("invalid due time %q", req.DueTime)
	}

	barista, err := s.users.GetByID(ctx, req.BaristaID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("barista %d: %w", req.BaristaID, err)
	}
	location, err := s.locations.GetByID(ctx, req.PickupLocationID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("pickup location %d: %w", req.PickupLocationID, err)
	}

	seen := make(map[int]bool, len(req.Items))
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return domain.Order{}, invalidf("quantity must be at least 1")
		}
		if seen[it.ProductID] {
			return domain.Order{}, invalidf("product %d appears twice", it.ProductID)
		}
		seen[it.ProductID] = true
		product, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("product %d: %w", it.ProductID, err)
		}
		items = append(items, domain.OrderItem{Product: product, Quantity: it.Quantity, Comment: it.Comment})
	}

	now := s.now().UTC()
	order := domain.Order{
		Barista: barista,
		Customer: domain.Customer{
			FullName:    req.CustomerName,
			PhoneNumber: req.CustomerPhone,
			Details:     req.CustomerDetails,
		},
		Location: location,
		DueDate:  dueDate,
		DueTime:  dueTime,
		State:    domain.StateNew,
		Items:    items,
		History: []domain.HistoryItem{{
			ActorID:   barista.ID,
			ActorName: barista.FullName(),
			Message:   "Order placed",
			NewState:  domain.StateNew,
			Timestamp: now,
		}},
	}

	order, err = s.orders.Save(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	if err := s.publisher.PublishStatusChanged(ctx, domain.OrderStatusChanged{
		OrderID:    order.ID,
		State:      order.State,
		Message:    "Order placed",
		ChangedBy:  barista.FullName(),
		OccurredAt: now,
	}); err != nil {
		return domain.Order{}, fmt.Errorf("publish order event: %w", err)
	}

	s.lg.Info("order_created", map[string]any{"order_id": order.ID, "due_date": req.DueDate})
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}

func (s *Service) GetOrder(ctx context.Context, id int) (domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ChangeOrderStatus moves the order to the requested state, appends the
// matching history entry and publishes the change.
func (s *Service) ChangeOrderStatus(ctx context.Context, orderID int, req domain.ChangeStatusRequest) (domain.Order, error) {
	if !req.State.Valid() {
		return domain.Order{}, invalidf("invalid order state %q", req.State)
	}
	actor, err := s.users.GetByID(ctx, req.ActorID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("actor %d: %w", req.ActorID, err)
	}
	message := req.Message
	if message == "" {
		message = "Order " + string(req.State)
	}

	at := s.now().UTC()
	if err := s.orders.ChangeStatus(ctx, orderID, actor.ID, req.State, message, at); err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.publisher.PublishStatusChanged(ctx, domain.OrderStatusChanged{
		OrderID:    order.ID,
		State:      order.State,
		Message:    message,
		ChangedBy:  actor.FullName(),
		OccurredAt: at,
	}); err != nil {
		return domain.Order{}, fmt.Errorf("publish order event: %w", err)
	}

	s.lg.Info("order_status_changed", map[string]any{"order_id": orderID, "state": string(req.State)})
	return order, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"bakery-system/internal/common/logger"
	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
	"bakery-system/internal/security"
)

// EventPublisher pushes order lifecycle events to the message broker.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt domain.OrderStatusChanged) error
}

// ValidationError marks a request rejected before any persistence call.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

type Service struct {
	users     repository.Users
	products  repository.Products
	locations repository.PickupLocations
	orders    repository.Orders
	encoder   security.Encoder
	publisher EventPublisher
	lg        *logger.Logger
	now       func() time.Time
}

func New(users repository.Users, products repository.Products,
	locations repository.PickupLocations, orders repository.Orders,
	encoder security.Encoder, publisher EventPublisher, lg *logger.Logger) *Service {
	return &Service{
		users:     users,
		products:  products,
		locations: locations,
		orders:    orders,
		encoder:   encoder,
		publisher: publisher,
		lg:        lg,
		now:       time.Now,
	}
}

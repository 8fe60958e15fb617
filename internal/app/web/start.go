package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"bakery-system/internal/app/web/handlers"
	"bakery-system/internal/app/web/service"
	"bakery-system/internal/common/httpx"
	"bakery-system/internal/common/logger"
	"bakery-system/internal/connections/rabbitmq"
	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
	"bakery-system/internal/security"
)

// statusPublisher adapts the shared RabbitMQ client to the service's
// EventPublisher.
type statusPublisher struct{ mq *rabbitmq.Client }

func (p statusPublisher) PublishStatusChanged(ctx context.Context, evt domain.OrderStatusChanged) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.mq.Publish(ctx, rabbitmq.EventsExchange, rabbitmq.StatusRoutingKey(string(evt.State)), body)
}

// Run wires repositories, service and handlers and serves HTTP until ctx
// is cancelled.
func Run(ctx context.Context, port int, db *sql.DB, mq *rabbitmq.Client) error {
	lg := logger.New("web")

	svc := service.New(
		repository.NewUsers(db),
		repository.NewProducts(db),
		repository.NewPickupLocations(db),
		repository.NewOrders(db),
		security.NewBcryptEncoder(),
		statusPublisher{mq: mq},
		lg,
	)
	h := handlers.New(svc, lg)

	addr := ":" + strconv.Itoa(port)
	lg.Info("listening", map[string]any{"addr": addr})
	return httpx.New(addr, h.Router()).Run(ctx)
}

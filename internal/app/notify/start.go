// Package notify is the notification subscriber: it consumes order status
// events and logs them. A real deployment would fan these out to email or
// push channels.
package notify

import (
	"context"
	"encoding/json"
	"errors"

	"bakery-system/internal/common/logger"
	"bakery-system/internal/connections/rabbitmq"
	"bakery-system/internal/domain"
)

func Run(ctx context.Context, mq *rabbitmq.Client) error {
	lg := logger.New("notification-subscriber")

	if err := mq.DeclareTopology(); err != nil {
		return err
	}
	deliveries, err := mq.Consume(rabbitmq.NotificationsQueue, "notificator", 1)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			var evt domain.OrderStatusChanged
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				lg.Error("bad_event", err, map[string]any{"routing_key": d.RoutingKey})
				_ = d.Nack(false, false)
				continue
			}
			lg.Info("order_status_changed", map[string]any{
				"order_id":   evt.OrderID,
				"state":      string(evt.State),
				"message":    evt.Message,
				"changed_by": evt.ChangedBy,
			})
			_ = d.Ack(false)
		}
	}
}

package adapter

import "context"

// Routing keys for order events.
const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
)

// EventPublisher fans order lifecycle events out to interested consumers.
// Publishing is best effort; the order flow never fails on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

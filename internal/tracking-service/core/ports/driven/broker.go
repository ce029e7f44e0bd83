package driven

import "context"

// ITrackingBroker publishes tracking events on a durable topic exchange.
type ITrackingBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
	IsAlive() bool
	Close() error
}

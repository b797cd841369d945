package services

import "mainstreet/pkg/logger"

// Event types published by the services.
const (
	EventShopEntered    = "shop.entered"
	EventShopChanged    = "shop.changed"
	EventShopsSeeded    = "shops.seeded"
	EventCommentCreated = "comment.created"
)

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	Publish(eventType string, data map[string]any) error
}

// publish is best effort: a broker failure never fails the request.
func publish(p EventPublisher, eventType string, data map[string]any) {
	if p == nil {
		return
	}
	if err := p.Publish(eventType, data); err != nil {
		logger.Warn().Err(err).Str("type", eventType).Msg("Failed to publish event")
	}
}

package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// RoutingKeySubscribed routes subscribe events to the mailing pipeline.
const RoutingKeySubscribed = "subscribed"

// PublishNewsletterEvent marshals the event and publishes it persistently
// on the newsletter exchange under the given routing key.
func PublishNewsletterEvent(ch *amqp.Channel, routingKey string, event models.NewsletterEvent) error {
	const op = "rabbitmq.PublishNewsletterEvent"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

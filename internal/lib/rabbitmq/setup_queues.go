package rabbitmq

// QueueConfig binds one consumer queue to a routing key on the newsletter
// exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNewsletterQueues lists the queues the mailing pipeline consumes.
func GetNewsletterQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "newsletter.subscribed", RoutingKey: RoutingKeySubscribed},
	}
}

package rabbitmq

import "github.com/magabrotheeeer/prorated-billing/internal/config"

// prefetch - сколько неподтверждённых сообщений получает потребитель; совпадает с числом обработчиков.
const prefetch = 10

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BillingQueues возвращает очереди событий биллинга.
func BillingQueues(cfg config.RabbitMQ) []QueueConfig {
	return []QueueConfig{
		{QueueName: cfg.Queue, RoutingKey: cfg.RoutingKey},
	}
}

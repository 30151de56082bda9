// Package notify реализует диспетчер уведомлений поверх RabbitMQ.
//
// Ядро вызывает Dispatch и само решает, что делать с ошибкой: переходы
// статуса никогда не откатываются из-за недоставленного уведомления.
package notify

import (
	"context"

	"github.com/streadway/amqp"

	librabbitmq "github.com/creatorshield/creatorshield/internal/lib/rabbitmq"
	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/rabbitmq"
)

// Dispatcher описывает интерфейс отправки уведомлений.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// AMQPDispatcher публикует уведомления в обменник notifications.
type AMQPDispatcher struct {
	ch *amqp.Channel
}

// NewAMQPDispatcher создает новый AMQPDispatcher поверх открытого канала.
func NewAMQPDispatcher(ch *amqp.Channel) *AMQPDispatcher {
	return &AMQPDispatcher{ch: ch}
}

// Dispatch публикует уведомление с ключом маршрутизации по его виду.
func (d *AMQPDispatcher) Dispatch(_ context.Context, n models.Notification) error {
	routingKey := rabbitmq.AccountRoutingKey
	if n.Kind == models.NotificationNewDevice {
		routingKey = rabbitmq.DeviceRoutingKey
	}
	return librabbitmq.PublishMessage(d.ch, "notifications", routingKey, n)
}

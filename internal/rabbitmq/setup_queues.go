package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в обменнике notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	// AccountQueue — очередь уведомлений о переходах статуса аккаунта.
	AccountQueue = "notifications.account"
	// DeviceQueue — очередь уведомлений о входе с нового устройства.
	DeviceQueue = "notifications.device"

	// AccountRoutingKey — ключ маршрутизации для уведомлений аккаунта.
	AccountRoutingKey = "account"
	// DeviceRoutingKey — ключ маршрутизации для уведомлений об устройствах.
	DeviceRoutingKey = "device"
)

// GetNotificationQueues возвращает топологию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AccountQueue, RoutingKey: AccountRoutingKey},
		{QueueName: DeviceQueue, RoutingKey: DeviceRoutingKey},
	}
}

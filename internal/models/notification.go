package models

// Вид уведомления определяет шаблон письма в сервисе отправки.
const (
	NotificationSuspended             = "suspended"
	NotificationSuspensionLifted      = "suspension_lifted"
	NotificationDeactivated           = "deactivated"
	NotificationReactivationReceived  = "reactivation_received"
	NotificationReactivationApproved  = "reactivation_approved"
	NotificationReactivationRejected  = "reactivation_rejected"
	NotificationReactivated           = "reactivated"
	NotificationActivated             = "activated"
	NotificationNewDevice             = "new_device"
)

// Notification — сообщение для диспетчера уведомлений. Сериализуется в
// JSON и публикуется в RabbitMQ, воркер отправки строит по нему письмо.
type Notification struct {
	Kind     string      `json:"kind"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Reason   string      `json:"reason,omitempty"`
	Device   *DeviceInfo `json:"device,omitempty"`
}

// Package metrics объявляет счётчики Prometheus для жизненного цикла аккаунтов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepTransitions считает автоматические переходы статуса по причинам.
	SweepTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorshield_sweep_transitions_total",
		Help: "Automatic status transitions applied by the status-check sweep.",
	}, []string{"reason"})

	// NotificationFailures считает неудачные публикации уведомлений.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorshield_notification_failures_total",
		Help: "Notification dispatch failures (logged, never fatal).",
	})
)

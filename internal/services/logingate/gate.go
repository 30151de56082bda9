// Package logingate принимает решение о допуске входа по статусу аккаунта.
//
// Gate — чистая функция от записи аккаунта и текущего момента: он не
// читает и не меняет хранилище и не "лечит" просроченные приостановки.
// Истёкшие окна переводит в active только проход проверки статусов,
// поэтому обратный отсчёт в отказе может дойти до нуля раньше, чем
// запись действительно сменит статус. Сервер остаётся единственным
// источником истины, отсчёт — только подсказка клиенту.
package logingate

import (
	"time"

	"github.com/creatorshield/creatorshield/internal/models"
)

// Причина отказа во входе, попадает в поле error ответа.
const (
	ReasonSuspended           = "Account Suspended"
	ReasonDeactivated         = "Account Deactivated"
	ReasonReactivationPending = "Account Reactivation Pending"
)

// Decision — решение гейта по одной попытке входа.
type Decision struct {
	Allowed      bool          // Вход разрешён
	Reason       string        // Структурированная причина отказа
	Message      string        // Человеко-читаемое пояснение
	IsApproved   bool          // Заявка на реактивацию одобрена
	Remaining    time.Duration // Остаток окна ожидания, не меньше нуля
	HasCountdown bool          // В отказе есть обратный отсчёт
}

// Countdown раскладывает остаток ожидания на часы, минуты и секунды.
func (d Decision) Countdown() (hours, minutes, seconds int) {
	total := int(d.Remaining.Seconds())
	return total / 3600, (total % 3600) / 60, total % 60
}

// Gate вычисляет решение о входе для аккаунта.
type Gate struct {
	delay time.Duration
}

// New создает Gate с заданной задержкой автоматической активации.
func New(delay time.Duration) *Gate {
	return &Gate{delay: delay}
}

// Evaluate возвращает решение о входе для аккаунта в момент now.
func (g *Gate) Evaluate(acc *models.Account, now time.Time) Decision {
	switch acc.Status {
	case models.StatusActive:
		return Decision{Allowed: true}

	case models.StatusSuspended:
		return Decision{
			Allowed:      false,
			Reason:       ReasonSuspended,
			Message:      "Your account is temporarily suspended. Access is restored automatically after the suspension period.",
			Remaining:    g.remaining(acc.SuspensionTimestamp, now),
			HasCountdown: true,
		}

	case models.StatusDeactivated:
		if acc.ReactivationStatus == models.ReactivationApproved {
			return Decision{
				Allowed:      false,
				Reason:       ReasonReactivationPending,
				Message:      "Your reactivation request was approved. The account becomes active after the waiting period.",
				IsApproved:   true,
				Remaining:    g.remaining(acc.ReactivationApprovedAt, now),
				HasCountdown: true,
			}
		}
		if acc.ReactivationStatus == models.ReactivationPending {
			return Decision{
				Allowed: false,
				Reason:  ReasonReactivationPending,
				Message: "Your reactivation request is awaiting review.",
			}
		}
		return Decision{
			Allowed: false,
			Reason:  ReasonDeactivated,
			Message: "Your account is deactivated. Submit a reactivation request to restore access.",
		}
	}

	// Неизвестный статус трактуется как отказ без отсчёта.
	return Decision{
		Allowed: false,
		Reason:  ReasonDeactivated,
		Message: "Your account is not active.",
	}
}

func (g *Gate) remaining(since *time.Time, now time.Time) time.Duration {
	if since == nil {
		return 0
	}
	remaining := g.delay - now.Sub(*since)
	if remaining < 0 {
		return 0
	}
	return remaining
}

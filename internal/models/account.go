// Package models содержит доменные структуры аккаунта создателя контента:
// статус жизненного цикла, отметки времени приостановки и вложенную
// заявку на реактивацию. Структуры используются в бизнес-логике и при
// работе с хранилищем.
package models

import "time"

// AccountStatus описывает статус аккаунта в жизненном цикле.
type AccountStatus string

const (
	// StatusActive — аккаунт активен, вход разрешён.
	StatusActive AccountStatus = "active"
	// StatusSuspended — аккаунт приостановлен на время, вход запрещён.
	StatusSuspended AccountStatus = "suspended"
	// StatusDeactivated — аккаунт деактивирован, вход запрещён до реактивации.
	StatusDeactivated AccountStatus = "deactivated"
)

// ReactivationStatus описывает состояние заявки на реактивацию аккаунта.
type ReactivationStatus string

const (
	// ReactivationNone — заявки нет.
	ReactivationNone ReactivationStatus = "none"
	// ReactivationPending — заявка подана и ждёт решения администратора.
	ReactivationPending ReactivationStatus = "pending"
	// ReactivationApproved — заявка одобрена, активация произойдёт после задержки.
	ReactivationApproved ReactivationStatus = "approved"
	// ReactivationRejected — заявка отклонена.
	ReactivationRejected ReactivationStatus = "rejected"
	// ReactivationCompleted — заявка отработана, аккаунт снова активен.
	ReactivationCompleted ReactivationStatus = "completed"
)

// Account представляет зарегистрированного создателя контента.
//
// Инварианты: SuspensionTimestamp != nil тогда и только тогда, когда
// Status == suspended; ReactivationApprovedAt != nil тогда и только тогда,
// когда ReactivationStatus == approved.
type Account struct {
	UID                     string             // Уникальный идентификатор аккаунта
	Email                   string             // Электронная почта (уникальная, вторичный ключ поиска)
	Username                string             // Имя пользователя (уникальное)
	PasswordHash            string             // Хэш пароля
	Role                    string             // Роль, admin или user
	Status                  AccountStatus      // Текущий статус жизненного цикла
	SuspensionTimestamp     *time.Time         // Момент приостановки, nil вне статуса suspended
	ReactivationStatus      ReactivationStatus // Состояние заявки на реактивацию
	ReactivationReason      string             // Причина, указанная создателем
	ReactivationExplanation string             // Пояснение, указанное создателем
	ReactivationApprovedAt  *time.Time         // Момент одобрения заявки, nil вне статуса approved
	CreatedAt               time.Time          // Дата регистрации
	UpdatedAt               time.Time          // Дата последнего изменения записи
}

// StatusChange описывает один атомарный переход статуса аккаунта.
// Передаётся в хранилище и применяется одним UPDATE.
//
// SuspensionTimestamp записывается всегда: nil означает очистку поля.
// ReactivationStatus nil означает "не менять поля заявки"; если статус
// заявки задан, вместе с ним записывается и ReactivationApprovedAt
// (nil очищает отметку одобрения).
type StatusChange struct {
	Status                 AccountStatus
	SuspensionTimestamp    *time.Time
	ReactivationStatus     *ReactivationStatus
	ReactivationApprovedAt *time.Time
}

// TransitionReason — причина автоматического перехода, попадает в уведомление.
const (
	// ReasonExpiredSuspension — истёк срок приостановки.
	ReasonExpiredSuspension = "expired_suspension"
	// ReasonExpiredReactivation — истекла задержка после одобрения реактивации.
	ReasonExpiredReactivation = "expired_reactivation"
)

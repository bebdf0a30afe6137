// Package models содержит доменные структуры премиум-статуса пользователя,
// а также вспомогательные типы для приёма данных из внешних источников
// (JSON-запросы RPC, события платёжного провайдера, сообщения брокера).
package models

import "time"

// PremiumStatus — трёхзначный результат проверки премиум-статуса.
// Булево "да/нет" недостаточно: ошибка обращения к хранилищу или SDK покупок
// не то же самое, что подтверждённое отсутствие подписки. Вызывающая сторона
// сама решает, как схлопывать StatusUnknown (RPC check схлопывает в false).
type PremiumStatus int

const (
	// StatusUnknown — статус выяснить не удалось (ошибка конфигурации, сети, ответа).
	StatusUnknown PremiumStatus = iota
	// StatusDenied — подтверждено: премиума нет.
	StatusDenied
	// StatusGranted — подтверждено: премиум активен.
	StatusGranted
)

// Bool схлопывает трёхзначный статус в булево значение.
// StatusUnknown считается false — доступ не выдаётся при ошибке.
func (s PremiumStatus) Bool() bool {
	return s == StatusGranted
}

func (s PremiumStatus) String() string {
	switch s {
	case StatusGranted:
		return "granted"
	case StatusDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// PremiumRecord — серверная запись премиум-статуса, ключом служит
// нормализованный (trim + lowercase) email. На email приходится не более
// одной записи: запись всегда перезаписывается целиком (delete-then-create).
type PremiumRecord struct {
	Email           string `json:"email"`
	IsPremium       bool   `json:"is_premium"`
	StripeSessionID string `json:"stripe_session_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// CheckRequest — тело RPC subscription.check.
type CheckRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SetRequest — тело RPC subscription.set.
// IsPremium — указатель, чтобы отличать явный false от отсутствующего поля.
type SetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	IsPremium       *bool  `json:"isPremium" validate:"required"`
	StripeSessionID string `json:"stripeSessionId,omitempty"`
}

// StripeEvent — конверт события платёжного провайдера,
// приходящий на webhook-эндпоинт.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object StripeObject `json:"object"`
	} `json:"data"`
}

// StripeObject — полезная нагрузка события. Email плательщика может лежать
// в одном из трёх полей в зависимости от типа события.
type StripeObject struct {
	ID              string `json:"id"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	ReceiptEmail string `json:"receipt_email"`
}

// PayerEmail возвращает email плательщика: первое непустое из
// customer_email, customer_details.email, receipt_email.
func (o StripeObject) PayerEmail() string {
	if o.CustomerEmail != "" {
		return o.CustomerEmail
	}
	if o.CustomerDetails.Email != "" {
		return o.CustomerDetails.Email
	}
	return o.ReceiptEmail
}

// WebhookEventRecord — строка журнала webhook-событий в PostgreSQL.
// Журнал служит аудиторским следом: фиксируется каждое принятое событие
// и исход его обработки, независимо от успеха записи в хранилище статусов.
type WebhookEventRecord struct {
	ID              int       `json:"id"`
	StripeEventID   string    `json:"stripe_event_id"`
	EventType       string    `json:"event_type"`
	Email           string    `json:"email"`
	StripeSessionID string    `json:"stripe_session_id"`
	Outcome         string    `json:"outcome"`
	ReceivedAt      time.Time `json:"received_at"`
}

// EntitlementGrant — сообщение брокера о выданном премиуме,
// публикуется webhook-обработчиком и потребляется воркером уведомлений.
type EntitlementGrant struct {
	Email           string    `json:"email"`
	StripeSessionID string    `json:"stripe_session_id,omitempty"`
	GrantedAt       time.Time `json:"granted_at"`
}

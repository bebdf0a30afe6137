package purchases

import "time"

// Subscriber — состояние подписчика в SDK покупок.
type Subscriber struct {
	OriginalAppUserID string                 `json:"original_app_user_id"`
	Entitlements      map[string]Entitlement `json:"entitlements"`
}

// Entitlement — один entitlement подписчика.
// ExpiresDate == nil означает бессрочный доступ (lifetime-покупка).
type Entitlement struct {
	ProductIdentifier string     `json:"product_identifier"`
	PurchaseDate      *time.Time `json:"purchase_date"`
	ExpiresDate       *time.Time `json:"expires_date"`
}

// Active сообщает, действует ли entitlement на момент now.
func (e Entitlement) Active(now time.Time) bool {
	return e.ExpiresDate == nil || e.ExpiresDate.After(now)
}

// subscriberResponse — конверт ответа GET /v1/subscribers/{app_user_id}.
type subscriberResponse struct {
	Subscriber Subscriber `json:"subscriber"`
}

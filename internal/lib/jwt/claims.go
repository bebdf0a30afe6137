// Package jwt реализует генерацию и парсинг сервисных JWT-токенов
// для административных эндпоинтов (subscription.set, журнал событий).
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга сервисных токенов.
type Maker interface {
	// GenerateToken создаёт токен для субъекта с указанной ролью.
	GenerateToken(subject, role string) (string, error)
	// ParseToken возвращает *ServiceClaims, если токен корректен.
	ParseToken(tokenStr string) (*ServiceClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

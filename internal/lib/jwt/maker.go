package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin — роль, дающая доступ к административным эндпоинтам.
const RoleAdmin = "admin"

// ServiceClaims описывает данные, хранящиеся в сервисном JWT.
type ServiceClaims struct {
	Role                 string `json:"role"` // Роль субъекта токена
	jwt.RegisteredClaims        // Стандартные claims (Subject, ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает JWT с заданными subject и role, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(subject, role string) (string, error) {
	claims := ServiceClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT, проверяет его подпись и валидность,
// возвращает ServiceClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*ServiceClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &ServiceClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

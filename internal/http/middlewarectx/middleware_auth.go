// Package middlewarectx содержит HTTP middleware премиум-сервиса:
// проверку сервисных JWT для административных эндпоинтов и ограничение
// частоты запросов.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/response"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/jwt"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Subject — ключ для субъекта сервисного токена в контексте
	Subject Key = "subject"
	// Role — ключ для роли в контексте
	Role Key = "role"
)

// AdminJWTMiddleware возвращает HTTP middleware, проверяющий сервисный JWT
// в заголовке Authorization и требующий роль admin.
func AdminJWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminJWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			if claims.Role != jwt.RoleAdmin {
				log.Error("insufficient role", slog.String("role", claims.Role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin role required"))
				return
			}

			ctx := context.WithValue(r.Context(), Subject, claims.Subject)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

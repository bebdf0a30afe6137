// Команда admin-token выпускает сервисный JWT для административных
// эндпоинтов (subscription/set, webhook-events).
//
//	admin-token -subject ops-cli
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/jwt"
)

func main() {
	subject := flag.String("subject", "ops-cli", "субъект токена (кто им пользуется)")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if cfg.AdminToken.Secret == "" {
		logger.Error("admin_token.secret is not configured")
		os.Exit(1)
	}

	maker := jwt.NewJWTMaker(cfg.AdminToken.Secret, cfg.AdminToken.TTL)
	token, err := maker.GenerateToken(*subject, jwt.RoleAdmin)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("err", err))
		os.Exit(1)
	}

	fmt.Println(token)
}

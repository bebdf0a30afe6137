// Команда entitlement-agent воспроизводит клиентскую сторону премиум-доступа:
// сверяет сигналы (allow-list, SDK покупок, опционально серверная запись)
// и при необходимости поллит статус до подтверждения оплаты.
//
// Режимы:
//
//	entitlement-agent -email user@example.com            # разовая проверка
//	entitlement-agent -email user@example.com -poll      # поллинг до подтверждения
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/entitlement"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/purchases"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/surreal"
)

// storeChecker адаптирует клиент хранилища статусов к серверному сигналу сверки.
type storeChecker struct {
	client *surreal.Client
}

func (s *storeChecker) CheckStatus(ctx context.Context, email string) (models.PremiumStatus, error) {
	return s.client.GetPremiumStatus(ctx, email)
}

func main() {
	email := flag.String("email", "", "email пользователя")
	poll := flag.Bool("poll", false, "поллить статус до подтверждения оплаты")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if *email == "" {
		logger.Error("flag -email is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var remote entitlement.RemoteChecker
	if cfg.Entitlement.ConsultRemote {
		remote = &storeChecker{client: surreal.NewClient(cfg.SurrealDB)}
	}

	reconciler := entitlement.NewReconciler(cfg.Entitlement, purchases.NewClient(cfg.Purchases), remote, logger)

	confirmed := make(chan string, 1)
	poller := entitlement.NewPoller(cfg.Entitlement, reconciler, logger, func(email string) {
		confirmed <- email
	})

	if !*poll {
		status := poller.CheckNow(ctx, *email)
		fmt.Printf("premium status for %s: %s\n", *email, status)
		return
	}

	if err := poller.Start(ctx, *email); err != nil {
		logger.Error("failed to start poller", slog.Any("err", err))
		os.Exit(1)
	}

	select {
	case email := <-confirmed:
		fmt.Printf("premium confirmed for %s\n", email)
	case <-ctx.Done():
		poller.Stop()
		fmt.Printf("polling stopped without confirmation, state: %s\n", poller.State())
	}
}

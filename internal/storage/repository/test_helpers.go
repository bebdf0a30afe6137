package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/migrations"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// setupTestDatabase поднимает контейнер PostgreSQL и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"), "failed to run migrations")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных журнала.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateEvent создает тестовую запись журнала webhook-событий.
func (f *TestDataFactory) CreateEvent(t *testing.T, eventType, email, outcome string) int {
	t.Helper()
	id, err := f.storage.CreateEvent(context.Background(), models.WebhookEventRecord{
		StripeEventID:   "evt_test",
		EventType:       eventType,
		Email:           email,
		StripeSessionID: "cs_test",
		Outcome:         outcome,
	})
	require.NoError(t, err)
	return id
}

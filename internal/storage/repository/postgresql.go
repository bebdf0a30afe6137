// Package repository реализует журнал webhook-событий на основе PostgreSQL.
// Журнал — аудиторский след платёжных событий: каждая доставка webhook
// фиксируется вместе с исходом обработки, независимо от того, удалась ли
// запись премиум-статуса в удалённое хранилище.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(connectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'webhook_events'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table webhook_events missing or query error: %w", err)
	}
	return nil
}

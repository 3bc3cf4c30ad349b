// Package storage реализует хранилище биллинга на основе PostgreSQL:
// снимки оплачиваемых апгрейдов, журнал платежей и платежи,
// которые не удалось применить автоматически.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrCheckoutNotFound возвращается, если снимка для платежа нет.
var ErrCheckoutNotFound = errors.New("checkout not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(ctx context.Context, storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'upgrade_checkouts'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check table upgrade_checkouts: %w", err)
	}
	if !exists {
		return errors.New("required table upgrade_checkouts missing")
	}
	return nil
}

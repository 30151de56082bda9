// Package repository реализует хранилище данных на основе PostgreSQL
// для аккаунтов, сессий устройств и журнала уведомлений о входе.
// Предоставляет методы чтения, перехода статусов и управления сессиями.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrAccountNotFound возвращается, когда аккаунт не найден в хранилище.
var ErrAccountNotFound = errors.New("account not found")

// ErrSessionNotFound возвращается, когда сессия устройства не найдена.
var ErrSessionNotFound = errors.New("session not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с аккаунтами и сессиями устройств.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
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
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table accounts missing or query error: %w", err)
	}
	return nil
}

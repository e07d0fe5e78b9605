// Package repository реализует хранилище данных на основе PostgreSQL
// для системы распределения парковочных мест. Предоставляет методы
// работы с пользователями, автомобилями, парковочными местами и
// закреплениями, включая парные записи место+закрепление в одной
// транзакции с оптимистической блокировкой.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
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
        WHERE table_name = 'assignments'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table assignments missing or query error: %w", err)
	}
	return nil
}

// uniqueViolation код PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// translateUnique преобразует нарушение уникальности в DuplicateError
// с именем поля, определённым по имени constraint. Прочие ошибки возвращает как есть.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return &models.DuplicateError{Field: "email"}
	case "cars_plate_key":
		return &models.DuplicateError{Field: "plate"}
	case "parking_spaces_number_key":
		return &models.DuplicateError{Field: "number"}
	case "assignments_car_id_key":
		return models.ErrCarAlreadyAssigned
	default:
		return &models.DuplicateError{Field: pgErr.ConstraintName}
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

const spaceColumns = `id, number, floor_number, capacity_max, capacity_remaining,
			      is_available, address, open_time, close_time, version`

func scanSpace(row interface{ Scan(...any) error }) (*models.ParkingSpace, error) {
	var sp models.ParkingSpace
	err := row.Scan(&sp.ID, &sp.Number, &sp.FloorNumber, &sp.CapacityMax,
		&sp.CapacityRemaining, &sp.IsAvailable, &sp.Address,
		&sp.OpenTime, &sp.CloseTime, &sp.Version)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// CreateSpace вставляет новое парковочное место и возвращает его ID.
func (s *Storage) CreateSpace(ctx context.Context, sp models.ParkingSpace) (int, error) {
	const op = "storage.CreateSpace"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO parking_spaces (number, floor_number, capacity_max,
			      capacity_remaining, is_available, address, open_time, close_time)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sp.Number, sp.FloorNumber, sp.CapacityMax, sp.CapacityRemaining,
		sp.IsAvailable, sp.Address, sp.OpenTime, sp.CloseTime).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}
	return newID, nil
}

// GetSpace возвращает парковочное место по его ID.
func (s *Storage) GetSpace(ctx context.Context, id int) (*models.ParkingSpace, error) {
	const op = "storage.GetSpace"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE id = $1`
	sp, err := scanSpace(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSpaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sp, nil
}

// GetSpaceByNumber возвращает парковочное место по его номеру.
func (s *Storage) GetSpaceByNumber(ctx context.Context, number string) (*models.ParkingSpace, error) {
	const op = "storage.GetSpaceByNumber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE number = $1`
	sp, err := scanSpace(s.DB.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSpaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sp, nil
}

// ListSpaces возвращает список парковочных мест с пагинацией.
// available фильтрует по доступности, nil — без фильтра.
func (s *Storage) ListSpaces(ctx context.Context, available *bool, limit, offset int) ([]*models.ParkingSpace, error) {
	const op = "storage.ListSpaces"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + spaceColumns + `
			  FROM parking_spaces
			  WHERE ($1::boolean IS NULL OR is_available = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, available, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ParkingSpace
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSpaceInfo обновляет статические атрибуты места (номер, этаж, адрес, часы работы).
// Счётчик ёмкости и версия меняются только движком распределения.
func (s *Storage) UpdateSpaceInfo(ctx context.Context, sp models.ParkingSpace) (int, error) {
	const op = "storage.UpdateSpaceInfo"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE parking_spaces
			  SET number = $1, floor_number = $2, address = $3,
			      open_time = $4, close_time = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		sp.Number, sp.FloorNumber, sp.Address, sp.OpenTime, sp.CloseTime, sp.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSpace удаляет парковочное место по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSpace(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSpace"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM parking_spaces WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// compareAndSwapSpace записывает новое состояние счётчика места внутри транзакции.
// Запись проходит только если версия не менялась с момента чтения;
// иначе возвращается models.ErrVersionConflict и транзакция откатывается вызывающим.
func compareAndSwapSpace(ctx context.Context, tx *sql.Tx, sp models.ParkingSpace) error {
	const op = "storage.compareAndSwapSpace"

	query := `UPDATE parking_spaces
			  SET capacity_remaining = $1, is_available = $2, version = version + 1
			  WHERE id = $3 AND version = $4`
	result, err := tx.ExecContext(ctx, query,
		sp.CapacityRemaining, sp.IsAvailable, sp.ID, sp.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrVersionConflict)
	}
	return nil
}

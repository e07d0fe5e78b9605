package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// CreateCar вставляет новый автомобиль и возвращает его ID.
func (s *Storage) CreateCar(ctx context.Context, car models.Car) (int, error) {
	const op = "storage.CreateCar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cars (plate, brand, color, owner_uid)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		car.Plate, car.Brand, car.Color, car.OwnerUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}
	return newID, nil
}

// GetCar возвращает автомобиль по его ID.
func (s *Storage) GetCar(ctx context.Context, id int) (*models.Car, error) {
	const op = "storage.GetCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plate, brand, color, owner_uid
			  FROM cars WHERE id = $1`
	var c models.Car
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.Plate, &c.Brand, &c.Color, &c.OwnerUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrCarNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListCars возвращает список всех автомобилей с пагинацией.
func (s *Storage) ListCars(ctx context.Context, limit, offset int) ([]*models.Car, error) {
	const op = "storage.ListCars"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plate, brand, color, owner_uid
			  FROM cars
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.Plate, &c.Brand, &c.Color, &c.OwnerUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCarsByOwner возвращает автомобили пользователя.
func (s *Storage) ListCarsByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error) {
	const op = "storage.ListCarsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plate, brand, color, owner_uid
			  FROM cars
			  WHERE owner_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.Plate, &c.Brand, &c.Color, &c.OwnerUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCar обновляет данные автомобиля и возвращает количество изменённых строк.
func (s *Storage) UpdateCar(ctx context.Context, car models.Car) (int, error) {
	const op = "storage.UpdateCar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cars
			  SET plate = $1, brand = $2, color = $3, owner_uid = $4
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		car.Plate, car.Brand, car.Color, car.OwnerUID, car.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCar удаляет автомобиль по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveCar(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveCar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

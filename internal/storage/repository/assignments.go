package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// CreateAssignmentGrant вставляет новое закрепление и записывает обновлённое
// состояние места в одной транзакции. Запись места проходит через проверку
// версии: при конкурентном изменении возвращается models.ErrVersionConflict
// и ни одна из записей не применяется.
func (s *Storage) CreateAssignmentGrant(ctx context.Context, entry models.AssignmentEntry, space models.ParkingSpace) (int, error) {
	const op = "storage.CreateAssignmentGrant"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := compareAndSwapSpace(ctx, tx, space); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO assignments (user_uid, space_id, car_id, recorded_slot, assigned_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query,
		entry.UserUID, entry.SpaceID, entry.CarID,
		entry.RecordedSlot, entry.AssignedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemoveAssignmentRelease удаляет закрепление и записывает возвращённую
// ёмкость места в одной транзакции с проверкой версии.
func (s *Storage) RemoveAssignmentRelease(ctx context.Context, id int, space models.ParkingSpace) (int, error) {
	const op = "storage.RemoveAssignmentRelease"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := compareAndSwapSpace(ctx, tx, space); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("%s: %w", op, models.ErrAssignmentNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateAssignmentMove обновляет закрепление и записывает новое состояние
// затронутых мест (старого и нового при переносе, либо ни одного при
// обновлении без смены места) в одной транзакции с проверкой версий.
func (s *Storage) UpdateAssignmentMove(ctx context.Context, entry models.AssignmentEntry, spaces []models.ParkingSpace) (int, error) {
	const op = "storage.UpdateAssignmentMove"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sp := range spaces {
		if err := compareAndSwapSpace(ctx, tx, sp); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `UPDATE assignments
			  SET user_uid = $1, space_id = $2, car_id = $3,
			      recorded_slot = $4, assigned_at = $5
			  WHERE id = $6`
	result, err := tx.ExecContext(ctx, query,
		entry.UserUID, entry.SpaceID, entry.CarID,
		entry.RecordedSlot, entry.AssignedAt, entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateUnique(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetAssignment возвращает закрепление по его ID.
func (s *Storage) GetAssignment(ctx context.Context, id int) (*models.AssignmentEntry, error) {
	const op = "storage.GetAssignment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, space_id, car_id, recorded_slot, assigned_at
			  FROM assignments WHERE id = $1`
	var entry models.AssignmentEntry
	var carID sql.NullInt64
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&entry.ID, &entry.UserUID, &entry.SpaceID,
		&carID, &entry.RecordedSlot, &entry.AssignedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAssignmentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if carID.Valid {
		v := int(carID.Int64)
		entry.CarID = &v
	}
	return &entry, nil
}

// ListAssignments возвращает список всех закреплений с пагинацией.
func (s *Storage) ListAssignments(ctx context.Context, limit, offset int) ([]*models.AssignmentEntry, error) {
	const op = "storage.ListAssignments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, space_id, car_id, recorded_slot, assigned_at
			  FROM assignments
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AssignmentEntry
	for rows.Next() {
		var entry models.AssignmentEntry
		var carID sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.UserUID, &entry.SpaceID,
			&carID, &entry.RecordedSlot, &entry.AssignedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if carID.Valid {
			v := int(carID.Int64)
			entry.CarID = &v
		}
		result = append(result, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAssignmentsByUser возвращает закрепления пользователя
// вместе с кратким описанием каждого места.
func (s *Storage) ListAssignmentsByUser(ctx context.Context, userUID string) ([]*models.UserAssignment, error) {
	const op = "storage.ListAssignmentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      a.id, a.assigned_at, a.recorded_slot,
			      p.id, p.number, p.floor_number, p.is_available,
			      p.address, p.open_time, p.close_time
			  FROM assignments a
			  JOIN parking_spaces p ON a.space_id = p.id
			  WHERE a.user_uid = $1
			  ORDER BY a.id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserAssignment
	for rows.Next() {
		var ua models.UserAssignment
		if err := rows.Scan(&ua.ID, &ua.AssignedAt, &ua.RecordedSlot,
			&ua.Space.ID, &ua.Space.Number, &ua.Space.FloorNumber,
			&ua.Space.IsAvailable, &ua.Space.Address,
			&ua.Space.OpenTime, &ua.Space.CloseTime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ua)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAssignmentsByCar возвращает закрепления, привязанные к автомобилю.
func (s *Storage) ListAssignmentsByCar(ctx context.Context, carID int) ([]*models.AssignmentEntry, error) {
	const op = "storage.ListAssignmentsByCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, space_id, car_id, recorded_slot, assigned_at
			  FROM assignments
			  WHERE car_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AssignmentEntry
	for rows.Next() {
		var entry models.AssignmentEntry
		var cid sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.UserUID, &entry.SpaceID,
			&cid, &entry.RecordedSlot, &entry.AssignedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cid.Valid {
			v := int(cid.Int64)
			entry.CarID = &v
		}
		result = append(result, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAssignmentsByCar возвращает количество живых закреплений автомобиля.
func (s *Storage) CountAssignmentsByCar(ctx context.Context, carID int) (int, error) {
	const op = "storage.CountAssignmentsByCar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE car_id = $1`, carID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

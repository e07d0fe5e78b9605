// Package services содержит бизнес-логику управления парковочными местами.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// SpaceRepository определяет методы для работы с парковочными местами в хранилище.
type SpaceRepository interface {
	// CreateSpace добавляет новое место и возвращает его ID.
	CreateSpace(ctx context.Context, sp models.ParkingSpace) (int, error)
	// GetSpace возвращает место по ID.
	GetSpace(ctx context.Context, id int) (*models.ParkingSpace, error)
	// GetSpaceByNumber возвращает место по номеру.
	GetSpaceByNumber(ctx context.Context, number string) (*models.ParkingSpace, error)
	// ListSpaces возвращает список мест с фильтром по доступности.
	ListSpaces(ctx context.Context, available *bool, limit, offset int) ([]*models.ParkingSpace, error)
	// UpdateSpaceInfo обновляет статические атрибуты места.
	UpdateSpaceInfo(ctx context.Context, sp models.ParkingSpace) (int, error)
	// RemoveSpace удаляет место по ID.
	RemoveSpace(ctx context.Context, id int) (int, error)
}

// SpaceService реализует операции над инвентарём парковочных мест.
type SpaceService struct {
	repo SpaceRepository
	log  *slog.Logger
}

// NewSpaceService создает новый экземпляр SpaceService.
func NewSpaceService(repo SpaceRepository, log *slog.Logger) *SpaceService {
	return &SpaceService{repo: repo, log: log}
}

// Create создает новое парковочное место. Номер места уникален,
// дубликат отклоняется. Ёмкость по умолчанию — 1.
func (s *SpaceService) Create(ctx context.Context, req models.DummySpace) (int, error) {
	if _, err := s.repo.GetSpaceByNumber(ctx, req.Number); err == nil {
		return 0, &models.DuplicateError{Field: "number"}
	} else if !errors.Is(err, models.ErrSpaceNotFound) {
		return 0, err
	}

	capacityMax := req.CapacityMax
	if capacityMax == 0 {
		capacityMax = 1
	}
	sp := models.ParkingSpace{
		Number:            req.Number,
		FloorNumber:       req.FloorNumber,
		CapacityMax:       capacityMax,
		CapacityRemaining: capacityMax,
		IsAvailable:       true,
		Address:           req.Address,
		OpenTime:          req.OpenTime,
		CloseTime:         req.CloseTime,
	}
	id, err := s.repo.CreateSpace(ctx, sp)
	if err != nil {
		return 0, err
	}
	s.log.Info("created parking space", slog.Int("id", id), slog.String("number", req.Number))
	return id, nil
}

// Read возвращает место по ID.
func (s *SpaceService) Read(ctx context.Context, id int) (*models.ParkingSpace, error) {
	return s.repo.GetSpace(ctx, id)
}

// List возвращает список мест; available фильтрует по доступности, nil — без фильтра.
func (s *SpaceService) List(ctx context.Context, available *bool, limit, offset int) ([]*models.ParkingSpace, error) {
	spaces, err := s.repo.ListSpaces(ctx, available, limit, offset)
	if err != nil {
		return nil, err
	}
	if spaces == nil {
		spaces = []*models.ParkingSpace{}
	}
	return spaces, nil
}

// Update обновляет статические атрибуты места. Смена номера на уже
// занятый другим местом отклоняется.
func (s *SpaceService) Update(ctx context.Context, id int, req models.DummySpace) (*models.ParkingSpace, error) {
	sp, err := s.repo.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}

	if other, err := s.repo.GetSpaceByNumber(ctx, req.Number); err == nil {
		if other.ID != id {
			return nil, &models.DuplicateError{Field: "number"}
		}
	} else if !errors.Is(err, models.ErrSpaceNotFound) {
		return nil, err
	}

	sp.Number = req.Number
	sp.FloorNumber = req.FloorNumber
	sp.Address = req.Address
	sp.OpenTime = req.OpenTime
	sp.CloseTime = req.CloseTime
	count, err := s.repo.UpdateSpaceInfo(ctx, *sp)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrSpaceNotFound
	}
	return sp, nil
}

// Remove удаляет место по ID и возвращает его снимок до удаления.
func (s *SpaceService) Remove(ctx context.Context, id int) (*models.ParkingSpace, error) {
	sp, err := s.repo.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.RemoveSpace(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info("removed parking space", slog.Int("id", id))
	return sp, nil
}

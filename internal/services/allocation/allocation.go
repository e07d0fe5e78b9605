package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/parking-allocator/internal/lib/sl"
	"github.com/magabrotheeeer/parking-allocator/internal/metrics"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// Repository определяет методы хранилища, необходимые движку распределения.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetCar возвращает автомобиль по ID.
	GetCar(ctx context.Context, id int) (*models.Car, error)
	// GetSpace возвращает парковочное место по ID.
	GetSpace(ctx context.Context, id int) (*models.ParkingSpace, error)
	// GetAssignment возвращает закрепление по ID.
	GetAssignment(ctx context.Context, id int) (*models.AssignmentEntry, error)
	// CreateAssignmentGrant записывает закрепление и новое состояние места атомарно.
	CreateAssignmentGrant(ctx context.Context, entry models.AssignmentEntry, space models.ParkingSpace) (int, error)
	// RemoveAssignmentRelease удаляет закрепление и возвращает ёмкость атомарно.
	RemoveAssignmentRelease(ctx context.Context, id int, space models.ParkingSpace) (int, error)
	// UpdateAssignmentMove обновляет закрепление и затронутые места атомарно.
	UpdateAssignmentMove(ctx context.Context, entry models.AssignmentEntry, spaces []models.ParkingSpace) (int, error)
	// ListAssignments возвращает все закрепления с пагинацией.
	ListAssignments(ctx context.Context, limit, offset int) ([]*models.AssignmentEntry, error)
	// ListAssignmentsByUser возвращает закрепления пользователя с кратким описанием мест.
	ListAssignmentsByUser(ctx context.Context, userUID string) ([]*models.UserAssignment, error)
	// ListAssignmentsByCar возвращает закрепления автомобиля.
	ListAssignmentsByCar(ctx context.Context, carID int) ([]*models.AssignmentEntry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события о выдаче и освобождении мест.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// AssignmentEvent тело события для очереди сообщений.
type AssignmentEvent struct {
	ID           int       `json:"id"`
	UserUID      string    `json:"user_uid"`
	SpaceID      int       `json:"space_id"`
	CarID        *int      `json:"car_id,omitempty"`
	RecordedSlot int       `json:"recorded_slot"`
	AssignedAt   time.Time `json:"assigned_at"`
}

const (
	// maxAttempts предел повторов записи при конфликте версий.
	maxAttempts = 3
	// retryDelay базовая задержка между повторами, растёт линейно.
	retryDelay = 50 * time.Millisecond
)

// AllocationService реализует выдачу, перенос и освобождение закреплений.
// Пара запись-места/запись-закрепления всегда применяется одной транзакцией
// хранилища; конкурентные выдачи разрешаются оптимистической блокировкой
// с ограниченным числом повторов.
type AllocationService struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// NewAllocationService создает новый экземпляр AllocationService.
func NewAllocationService(repo Repository, cache Cache, events EventPublisher, log *slog.Logger) *AllocationService {
	return &AllocationService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Create выдаёт парковочное место пользователю.
//
// Все проверки ссылок выполняются до какой-либо записи: при любом отказе
// валидации состояние системы не меняется. Запись повторяется при
// конфликте версий, после исчерпания повторов возвращается
// models.ErrConcurrencyConflict.
func (s *AllocationService) Create(ctx context.Context, req models.DummyAssignment) (*models.AssignmentEntry, error) {
	if _, err := s.repo.GetUser(ctx, req.UserUID); err != nil {
		return nil, err
	}
	if req.CarID != nil {
		if _, err := s.repo.GetCar(ctx, *req.CarID); err != nil {
			return nil, err
		}
		if err := s.checkCarFree(ctx, *req.CarID, 0); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		space, err := s.repo.GetSpace(ctx, req.SpaceID)
		if err != nil {
			return nil, err
		}
		if !space.IsAvailable {
			return nil, models.ErrSpaceUnavailable
		}

		granted, err := Grant(*space)
		if err != nil {
			// Счётчик и флаг разошлись — повреждение данных, не гонка.
			return nil, fmt.Errorf("space %d: %w", space.ID, err)
		}

		entry := models.AssignmentEntry{
			UserUID:      req.UserUID,
			SpaceID:      req.SpaceID,
			CarID:        req.CarID,
			RecordedSlot: space.CapacityRemaining,
			AssignedAt:   time.Now().UTC(),
		}

		id, err := s.repo.CreateAssignmentGrant(ctx, entry, granted)
		if err == nil {
			entry.ID = id
			metrics.GrantsTotal.Inc()
			s.log.Info("created assignment",
				slog.Int("id", id), slog.Int("space_id", req.SpaceID))
			s.cacheEntry(&entry)
			s.publish("assignment.created", &entry)
			return &entry, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		metrics.VersionConflictsTotal.Inc()
		lastErr = err
		time.Sleep(retryDelay * time.Duration(attempt))
	}

	s.log.Warn("grant retries exhausted",
		slog.Int("space_id", req.SpaceID), sl.Err(lastErr))
	return nil, models.ErrConcurrencyConflict
}

// Remove освобождает закрепление и возвращает его снимок до удаления.
//
// Отсутствие места у живого закрепления — нарушение целостности данных,
// оно возвращается как models.ErrSpaceNotFound, а не как успех.
func (s *AllocationService) Remove(ctx context.Context, id int) (*models.AssignmentEntry, error) {
	entry, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		space, err := s.repo.GetSpace(ctx, entry.SpaceID)
		if err != nil {
			if errors.Is(err, models.ErrSpaceNotFound) {
				s.log.Error("assignment references missing space",
					slog.Int("assignment_id", id), slog.Int("space_id", entry.SpaceID))
			}
			return nil, err
		}

		released, err := Release(*space)
		if err != nil {
			return nil, fmt.Errorf("space %d: %w", space.ID, err)
		}

		_, err = s.repo.RemoveAssignmentRelease(ctx, id, released)
		if err == nil {
			metrics.ReleasesTotal.Inc()
			s.log.Info("removed assignment",
				slog.Int("id", id), slog.Int("space_id", entry.SpaceID))
			if err := s.cache.Invalidate(cacheKey(id)); err != nil {
				s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), sl.Err(err))
			}
			s.publish("assignment.removed", entry)
			return entry, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		metrics.VersionConflictsTotal.Inc()
		lastErr = err
		time.Sleep(retryDelay * time.Duration(attempt))
	}

	s.log.Warn("release retries exhausted",
		slog.Int("assignment_id", id), sl.Err(lastErr))
	return nil, models.ErrConcurrencyConflict
}

// Update изменяет ссылки закрепления. Перенос на другое место выполняется
// как освобождение старого и выдача нового в одной транзакции: при
// отсутствии ёмкости на новом месте возвращается models.ErrSpaceUnavailable
// и ни одно из мест не меняется.
func (s *AllocationService) Update(ctx context.Context, id int, req models.DummyAssignmentUpdate) (*models.AssignmentEntry, error) {
	existing, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	userUID := existing.UserUID
	if req.UserUID != "" {
		userUID = req.UserUID
		if _, err := s.repo.GetUser(ctx, userUID); err != nil {
			return nil, err
		}
	}

	carID := existing.CarID
	if req.CarID != nil {
		carID = req.CarID
		if _, err := s.repo.GetCar(ctx, *carID); err != nil {
			return nil, err
		}
		if err := s.checkCarFree(ctx, *carID, id); err != nil {
			return nil, err
		}
	}

	spaceID := existing.SpaceID
	if req.SpaceID != 0 {
		spaceID = req.SpaceID
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		entry := models.AssignmentEntry{
			ID:           id,
			UserUID:      userUID,
			SpaceID:      spaceID,
			CarID:        carID,
			RecordedSlot: existing.RecordedSlot,
			AssignedAt:   existing.AssignedAt,
		}

		var touched []models.ParkingSpace
		if spaceID != existing.SpaceID {
			oldSpace, err := s.repo.GetSpace(ctx, existing.SpaceID)
			if err != nil {
				return nil, err
			}
			newSpace, err := s.repo.GetSpace(ctx, spaceID)
			if err != nil {
				return nil, err
			}
			if !newSpace.IsAvailable {
				return nil, models.ErrSpaceUnavailable
			}

			released, err := Release(*oldSpace)
			if err != nil {
				return nil, fmt.Errorf("space %d: %w", oldSpace.ID, err)
			}
			granted, err := Grant(*newSpace)
			if err != nil {
				return nil, fmt.Errorf("space %d: %w", newSpace.ID, err)
			}
			entry.RecordedSlot = newSpace.CapacityRemaining
			entry.AssignedAt = time.Now().UTC()
			touched = []models.ParkingSpace{released, granted}
		}

		count, err := s.repo.UpdateAssignmentMove(ctx, entry, touched)
		if err == nil {
			if count == 0 {
				return nil, models.ErrAssignmentNotFound
			}
			s.log.Info("updated assignment", slog.Int("id", id))
			s.cacheEntry(&entry)
			return &entry, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		metrics.VersionConflictsTotal.Inc()
		lastErr = err
		time.Sleep(retryDelay * time.Duration(attempt))
	}

	s.log.Warn("move retries exhausted",
		slog.Int("assignment_id", id), sl.Err(lastErr))
	return nil, models.ErrConcurrencyConflict
}

// Read возвращает закрепление по ID, используя кеш или хранилище.
func (s *AllocationService) Read(ctx context.Context, id int) (*models.AssignmentEntry, error) {
	var result *models.AssignmentEntry
	found, err := s.cache.Get(cacheKey(id), &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheEntry(result)
	return result, nil
}

// List возвращает список всех закреплений с пагинацией.
func (s *AllocationService) List(ctx context.Context, limit, offset int) ([]*models.AssignmentEntry, error) {
	entries, err := s.repo.ListAssignments(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.AssignmentEntry{}
	}
	return entries, nil
}

// ListForUser возвращает закрепления пользователя с кратким описанием мест.
// Для существующего пользователя без закреплений возвращается пустой список.
func (s *AllocationService) ListForUser(ctx context.Context, userUID string) ([]*models.UserAssignment, error) {
	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		return nil, err
	}
	result, err := s.repo.ListAssignmentsByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []*models.UserAssignment{}
	}
	return result, nil
}

// ListForCar возвращает закрепления автомобиля.
func (s *AllocationService) ListForCar(ctx context.Context, carID int) ([]*models.AssignmentEntry, error) {
	if _, err := s.repo.GetCar(ctx, carID); err != nil {
		return nil, err
	}
	result, err := s.repo.ListAssignmentsByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []*models.AssignmentEntry{}
	}
	return result, nil
}

// checkCarFree проверяет, что автомобиль не привязан к другому живому
// закреплению. excludeID исключает собственное закрепление при обновлении.
func (s *AllocationService) checkCarFree(ctx context.Context, carID, excludeID int) error {
	entries, err := s.repo.ListAssignmentsByCar(ctx, carID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID != excludeID {
			return models.ErrCarAlreadyAssigned
		}
	}
	return nil
}

func (s *AllocationService) cacheEntry(entry *models.AssignmentEntry) {
	if entry == nil {
		return
	}
	key := cacheKey(entry.ID)
	if err := s.cache.Set(key, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache assignment", slog.String("key", key), sl.Err(err))
	}
}

func (s *AllocationService) publish(routingKey string, entry *models.AssignmentEntry) {
	if s.events == nil {
		return
	}
	event := AssignmentEvent{
		ID:           entry.ID,
		UserUID:      entry.UserUID,
		SpaceID:      entry.SpaceID,
		CarID:        entry.CarID,
		RecordedSlot: entry.RecordedSlot,
		AssignedAt:   entry.AssignedAt,
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("assignment:%d", id)
}

// Package services содержит бизнес-логику управления автомобилями пользователей.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// CarRepository определяет методы для работы с автомобилями в хранилище.
type CarRepository interface {
	// CreateCar добавляет новый автомобиль и возвращает его ID.
	CreateCar(ctx context.Context, car models.Car) (int, error)
	// GetCar возвращает автомобиль по ID.
	GetCar(ctx context.Context, id int) (*models.Car, error)
	// ListCars возвращает список автомобилей с пагинацией.
	ListCars(ctx context.Context, limit, offset int) ([]*models.Car, error)
	// ListCarsByOwner возвращает автомобили пользователя.
	ListCarsByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error)
	// UpdateCar обновляет данные автомобиля.
	UpdateCar(ctx context.Context, car models.Car) (int, error)
	// RemoveCar удаляет автомобиль по ID.
	RemoveCar(ctx context.Context, id int) (int, error)
	// GetUser возвращает пользователя по UID, нужен для проверки владельца.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CarService реализует операции над автомобилями.
type CarService struct {
	repo CarRepository
	log  *slog.Logger
}

// NewCarService создает новый экземпляр CarService.
func NewCarService(repo CarRepository, log *slog.Logger) *CarService {
	return &CarService{repo: repo, log: log}
}

// Create создает новый автомобиль. Владелец должен существовать.
func (s *CarService) Create(ctx context.Context, req models.DummyCar) (int, error) {
	if _, err := s.repo.GetUser(ctx, req.OwnerUID); err != nil {
		return 0, err
	}
	car := models.Car{
		Plate:    req.Plate,
		Brand:    req.Brand,
		Color:    req.Color,
		OwnerUID: req.OwnerUID,
	}
	id, err := s.repo.CreateCar(ctx, car)
	if err != nil {
		return 0, err
	}
	s.log.Info("created car", slog.Int("id", id), slog.String("plate", req.Plate))
	return id, nil
}

// Read возвращает автомобиль по ID.
func (s *CarService) Read(ctx context.Context, id int) (*models.Car, error) {
	return s.repo.GetCar(ctx, id)
}

// List возвращает список всех автомобилей с пагинацией.
func (s *CarService) List(ctx context.Context, limit, offset int) ([]*models.Car, error) {
	cars, err := s.repo.ListCars(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	return cars, nil
}

// ListByOwner возвращает автомобили пользователя.
// Для неизвестного пользователя возвращается пустой список.
func (s *CarService) ListByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error) {
	if _, err := s.repo.GetUser(ctx, ownerUID); err != nil {
		return []*models.Car{}, nil
	}
	cars, err := s.repo.ListCarsByOwner(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	return cars, nil
}

// Update обновляет данные автомобиля, включая смену владельца.
func (s *CarService) Update(ctx context.Context, id int, req models.DummyCar) (*models.Car, error) {
	car, err := s.repo.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, req.OwnerUID); err != nil {
		return nil, err
	}

	car.Plate = req.Plate
	car.Brand = req.Brand
	car.Color = req.Color
	car.OwnerUID = req.OwnerUID
	count, err := s.repo.UpdateCar(ctx, *car)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrCarNotFound
	}
	return car, nil
}

// Remove удаляет автомобиль по ID.
func (s *CarService) Remove(ctx context.Context, id int) (int, error) {
	count, err := s.repo.RemoveCar(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, models.ErrCarNotFound
	}
	s.log.Info("removed car", slog.Int("id", id))
	return count, nil
}

// Package services содержит бизнес-логику управления профилями пользователей.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/parking-allocator/internal/lib/password"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUser обновляет данные пользователя.
	UpdateUser(ctx context.Context, user models.User) (int, error)
	// RemoveUser удаляет пользователя; при наличии закреплений возвращает ошибку.
	RemoveUser(ctx context.Context, userUID string) (int, error)
}

// UserService реализует операции над профилями пользователей.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Read возвращает пользователя по UID.
func (s *UserService) Read(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// List возвращает список пользователей с пагинацией.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Update частично обновляет профиль пользователя: пустые поля запроса
// не изменяются, новый пароль хэшируется заново.
func (s *UserService) Update(ctx context.Context, userUID string, req models.DummyUserUpdate) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Password != "" {
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	count, err := s.repo.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrUserNotFound
	}
	s.log.Info("updated user", slog.String("user_uid", userUID))
	return user, nil
}

// Remove удаляет пользователя. Пользователь с живыми закреплениями
// не удаляется: сначала нужно освободить его места.
func (s *UserService) Remove(ctx context.Context, userUID string) (int, error) {
	count, err := s.repo.RemoveUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed user", slog.String("user_uid", userUID))
	return count, nil
}

// Package services содержит бизнес-логику регистрации и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/parking-allocator/internal/lib/jwt"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/password"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// AuthRepository определяет методы для работы с учётными записями в хранилище.
type AuthRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по электронной почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService реализует регистрацию и вход пользователей.
type AuthService struct {
	repo  AuthRepository
	maker jwt.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo AuthRepository, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{repo: repo, maker: maker, log: log}
}

// Register создает нового пользователя с ролью user и возвращает его UID.
// Пароль хэшируется перед сохранением, дубликат почты отклоняется хранилищем.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "user",
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("registered user", slog.String("user_uid", uid))
	return uid, nil
}

// Login проверяет учётные данные и возвращает подписанный JWT.
// Неизвестная почта и неверный пароль неразличимы для клиента:
// обе ситуации дают models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", models.ErrInvalidCredentials
	}
	token, err := s.maker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", err
	}
	s.log.Info("user logged in", slog.String("user_uid", user.UID))
	return token, nil
}

// Package models содержит доменные структуры системы распределения парковочных мест,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string // Уникальный идентификатор пользователя
	Email        string // Электронная почта (уникальная)
	PasswordHash string // Хэш пароля пользователя
	FirstName    string // Имя
	LastName     string // Фамилия
	Role         string // Роль пользователя, admin или user
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email     string `json:"email" validate:"required,email"`      // Электронная почта
	Password  string `json:"password" validate:"required,min=8"`   // Пароль (минимум 8 символов)
	FirstName string `json:"first_name" validate:"required"`       // Имя
	LastName  string `json:"last_name" validate:"required"`        // Фамилия
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Password string `json:"password" validate:"required"`    // Пароль
}

// DummyUserUpdate используется для частичного обновления профиля пользователя.
// Пустые поля не изменяются.
type DummyUserUpdate struct {
	Email     string `json:"email" validate:"omitempty,email"` // Новая электронная почта
	Password  string `json:"password" validate:"omitempty,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

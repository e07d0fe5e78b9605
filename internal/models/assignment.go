package models

import "time"

// AssignmentEntry представляет закрепление парковочного места за пользователем.
// Каждая запись соответствует одной единице потреблённой ёмкости своего места.
type AssignmentEntry struct {
	ID           int       // Уникальный идентификатор закрепления
	UserUID      string    // UID пользователя
	SpaceID      int       // ID парковочного места
	CarID        *int      // ID автомобиля, может отсутствовать
	RecordedSlot int       // Значение счётчика ёмкости на момент выдачи (для аудита)
	AssignedAt   time.Time // Время выдачи
}

// DummyAssignment используется для приёма данных закрепления из JSON-запроса.
type DummyAssignment struct {
	UserUID string `json:"user_uid" validate:"required,uuid"` // UID пользователя
	SpaceID int    `json:"space_id" validate:"required,gt=0"` // ID места
	CarID   *int   `json:"car_id" validate:"omitempty,gt=0"`  // ID автомобиля (опционально)
}

// DummyAssignmentUpdate используется для обновления закрепления.
// Пустые поля означают «оставить как есть».
type DummyAssignmentUpdate struct {
	UserUID string `json:"user_uid" validate:"omitempty,uuid"`
	SpaceID int    `json:"space_id" validate:"omitempty,gt=0"`
	CarID   *int   `json:"car_id" validate:"omitempty,gt=0"`
}

// SpaceSummary краткая информация о парковочном месте,
// встраиваемая в ответ со списком закреплений пользователя.
type SpaceSummary struct {
	ID          int    `json:"id"`
	Number      string `json:"number"`
	FloorNumber int    `json:"floor_number"`
	IsAvailable bool   `json:"is_available"`
	Address     string `json:"address"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
}

// UserAssignment закрепление пользователя вместе с кратким описанием места.
type UserAssignment struct {
	ID           int          `json:"id"`
	AssignedAt   time.Time    `json:"assigned_at"`
	RecordedSlot int          `json:"recorded_slot"`
	Space        SpaceSummary `json:"parking_space"`
}

package models

// Car представляет автомобиль пользователя.
// Каждый автомобиль принадлежит ровно одному пользователю,
// владелец может быть изменён при обновлении.
type Car struct {
	ID       int    // Уникальный идентификатор автомобиля
	Plate    string // Регистрационный номер (уникальный)
	Brand    string // Марка автомобиля
	Color    string // Цвет автомобиля
	OwnerUID string // UID пользователя-владельца
}

// DummyCar используется для приёма данных автомобиля из JSON-запроса.
type DummyCar struct {
	Plate    string `json:"plate" validate:"required"`          // Регистрационный номер
	Brand    string `json:"brand" validate:"required"`          // Марка
	Color    string `json:"color"`                              // Цвет
	OwnerUID string `json:"owner_uid" validate:"required,uuid"` // UID владельца
}

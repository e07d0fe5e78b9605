package models

// ParkingSpace представляет парковочное место с ёмкостью.
//
// CapacityRemaining — счётчик оставшейся ёмкости, CapacityMax — настроенный
// максимум. Инварианты: 0 <= CapacityRemaining <= CapacityMax и
// IsAvailable == (CapacityRemaining > 0). Поле Version используется для
// оптимистической блокировки при конкурентных выдачах.
type ParkingSpace struct {
	ID                int    // Уникальный идентификатор места
	Number            string // Номер места (уникальный)
	FloorNumber       int    // Этаж, статический физический признак
	CapacityMax       int    // Настроенный максимум ёмкости
	CapacityRemaining int    // Оставшаяся ёмкость
	IsAvailable       bool   // Доступно ли место, производное от счётчика
	Address           string // Адрес парковки
	OpenTime          string // Время открытия
	CloseTime         string // Время закрытия
	Version           int    // Версия записи для оптимистической блокировки
}

// DummySpace используется для приёма данных парковочного места из JSON-запроса.
// CapacityMax по умолчанию равен 1 — простейший вариант, одно место на один автомобиль.
type DummySpace struct {
	Number      string `json:"number" validate:"required"`           // Номер места
	FloorNumber int    `json:"floor_number"`                         // Этаж
	CapacityMax int    `json:"capacity_max" validate:"omitempty,gt=0"` // Максимальная ёмкость (по умолчанию 1)
	Address     string `json:"address" validate:"required"`          // Адрес
	OpenTime    string `json:"open_time" validate:"required"`        // Время открытия
	CloseTime   string `json:"close_time" validate:"required"`       // Время закрытия
}

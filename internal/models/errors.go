package models

import (
	"errors"
	"fmt"
)

// Ошибки доменного уровня. Каждая соответствует отдельному виду отказа,
// обработчики транслируют их в стабильные HTTP-статусы через errors.Is.
var (
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrCarNotFound автомобиль не найден.
	ErrCarNotFound = errors.New("car not found")
	// ErrSpaceNotFound парковочное место не найдено.
	ErrSpaceNotFound = errors.New("parking space not found")
	// ErrAssignmentNotFound закрепление не найдено.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSpaceUnavailable место существует, но свободной ёмкости нет.
	ErrSpaceUnavailable = errors.New("parking space unavailable")
	// ErrCapacityExhausted счётчик ёмкости уже равен нулю.
	ErrCapacityExhausted = errors.New("capacity exhausted")
	// ErrCapacityOverflow возврат ёмкости превысил бы настроенный максимум.
	ErrCapacityOverflow = errors.New("capacity overflow")
	// ErrCarAlreadyAssigned автомобиль уже привязан к живому закреплению.
	ErrCarAlreadyAssigned = errors.New("car already assigned")
	// ErrUserHasAssignments пользователя нельзя удалить, пока есть закрепления.
	ErrUserHasAssignments = errors.New("user has active assignments")
	// ErrVersionConflict версия записи изменилась между чтением и записью.
	// Внутренняя ошибка хранилища, сервис повторяет операцию.
	ErrVersionConflict = errors.New("version conflict")
	// ErrConcurrencyConflict повторы при конфликте версий исчерпаны.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DuplicateError нарушение уникальности поля (номер места, номер автомобиля, email).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for field %s", e.Field)
}

// IsDuplicate сообщает, является ли ошибка нарушением уникальности,
// и возвращает имя поля-дубликата.
func IsDuplicate(err error) (string, bool) {
	var de *DuplicateError
	if errors.As(err, &de) {
		return de.Field, true
	}
	return "", false
}

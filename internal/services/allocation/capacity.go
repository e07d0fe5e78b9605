// Package services содержит движок распределения парковочных мест:
// чистые переходы счётчика ёмкости и оркестрацию выдачи/освобождения
// закреплений поверх хранилища.
package services

import "github.com/magabrotheeeer/parking-allocator/internal/models"

// Grant возвращает копию места с потреблённой единицей ёмкости.
// Инвариант на выходе: IsAvailable == (CapacityRemaining > 0).
// Возвращает models.ErrCapacityExhausted, если свободной ёмкости нет.
func Grant(sp models.ParkingSpace) (models.ParkingSpace, error) {
	if sp.CapacityRemaining <= 0 {
		return models.ParkingSpace{}, models.ErrCapacityExhausted
	}
	sp.CapacityRemaining--
	sp.IsAvailable = sp.CapacityRemaining > 0
	return sp, nil
}

// Release возвращает копию места с возвращённой единицей ёмкости.
// Счётчик никогда не превышает CapacityMax: повторное освобождение
// одной и той же единицы отклоняется с models.ErrCapacityOverflow.
func Release(sp models.ParkingSpace) (models.ParkingSpace, error) {
	if sp.CapacityRemaining+1 > sp.CapacityMax {
		return models.ParkingSpace{}, models.ErrCapacityOverflow
	}
	sp.CapacityRemaining++
	sp.IsAvailable = sp.CapacityRemaining > 0
	return sp, nil
}

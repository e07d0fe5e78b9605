// Package remove реализует HTTP-обработчик для освобождения закрепления.
//
// Удаление закрепления возвращает потреблённую единицу ёмкости его месту.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parking-allocator/internal/http/response"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/sl"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// Handler обрабатывает запросы на освобождение закреплений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Движок распределения мест
}

// Service описывает интерфейс освобождения закрепления.
type Service interface {
	Remove(ctx context.Context, id int) (*models.AssignmentEntry, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Освободить закрепление
// @Description Удаляет закрепление и возвращает единицу ёмкости парковочному месту.
// @Tags Assignments
// @Produce  json
// @Param id path int true "ID закрепления"
// @Success 200 {object} map[string]any "Снимок удалённого закрепления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Закрепление не найдено"
// @Failure 409 {object} response.ErrorResponse "Конфликт конкурентных изменений"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /assignments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	entry, err := h.service.Remove(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAssignmentNotFound):
			log.Error("assignment not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("assignment not found"))
		case errors.Is(err, models.ErrConcurrencyConflict):
			log.Error("concurrent updates exhausted retries", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("concurrent update conflict, retry later"))
		default:
			log.Error("failed to remove assignment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove assignment"))
		}
		return
	}

	log.Info("success to remove assignment", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"assignment": entry,
	}))
}

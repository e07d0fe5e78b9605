// Package read реализует HTTP-обработчик для получения закрепления по ID.
package read

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

// Handler обрабатывает запросы на получение закрепления по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Движок распределения мест
}

// Service описывает интерфейс чтения закрепления.
type Service interface {
	Read(ctx context.Context, id int) (*models.AssignmentEntry, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить закрепление
// @Description Возвращает закрепление парковочного места по ID.
// @Tags Assignments
// @Produce  json
// @Param id path int true "ID закрепления"
// @Success 200 {object} map[string]any "Данные закрепления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Закрепление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /assignments/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.read"
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

	entry, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Error("assignment not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("assignment not found"))
			return
		}
		log.Error("failed to read assignment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read assignment"))
		return
	}

	log.Info("success to read assignment", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"assignment": entry,
	}))
}

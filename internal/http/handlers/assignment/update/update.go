// Package update реализует HTTP-обработчик для изменения закрепления.
//
// Перенос на другое место выполняется как освобождение старого и выдача
// нового в одной транзакции хранилища.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/parking-allocator/internal/http/response"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/sl"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// Handler обрабатывает запросы на изменение закреплений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Движок распределения мест
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс изменения закрепления.
type Service interface {
	Update(ctx context.Context, id int, req models.DummyAssignmentUpdate) (*models.AssignmentEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить закрепление
// @Description Изменяет ссылки закрепления. Перенос на другое место освобождает старое место и потребляет ёмкость нового атомарно.
// @Tags Assignments
// @Accept  json
// @Produce  json
// @Param id path int true "ID закрепления"
// @Param request body models.DummyAssignmentUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённое закрепление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Закрепление или ссылка не найдены"
// @Failure 409 {object} response.ErrorResponse "Новое место занято или конфликт конкурентных изменений"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /assignments/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.update"
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

	var req models.DummyAssignmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	entry, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAssignmentNotFound),
			errors.Is(err, models.ErrUserNotFound),
			errors.Is(err, models.ErrCarNotFound),
			errors.Is(err, models.ErrSpaceNotFound):
			log.Error("referenced entity not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, models.ErrSpaceUnavailable):
			log.Error("target space has no free capacity", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("parking space unavailable"))
		case errors.Is(err, models.ErrCarAlreadyAssigned):
			log.Error("car already assigned", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("car already assigned to another space"))
		case errors.Is(err, models.ErrConcurrencyConflict):
			log.Error("concurrent updates exhausted retries", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("concurrent update conflict, retry later"))
		default:
			log.Error("failed to update assignment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update assignment"))
		}
		return
	}

	log.Info("success to update assignment", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"assignment": entry,
	}))
}

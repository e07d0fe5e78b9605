// Package update реализует HTTP-обработчик для изменения автомобиля.
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

// Handler обрабатывает запросы на изменение автомобилей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики автомобилей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс изменения автомобиля.
type Service interface {
	Update(ctx context.Context, id int, req models.DummyCar) (*models.Car, error)
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
// @Summary Изменить автомобиль
// @Description Обновляет данные автомобиля, включая смену владельца.
// @Tags Cars
// @Accept  json
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Param request body models.DummyCar true "Новые данные автомобиля"
// @Success 200 {object} map[string]any "Обновлённый автомобиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Автомобиль или владелец не найдены"
// @Failure 409 {object} response.ErrorResponse "Номерной знак уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.update"
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

	var req models.DummyCar
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

	car, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCarNotFound),
			errors.Is(err, models.ErrUserNotFound):
			log.Error("referenced entity not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			if field, ok := models.IsDuplicate(err); ok {
				log.Error("duplicate car plate", sl.Err(err))
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, response.Error("duplicate value for field "+field))
				return
			}
			log.Error("failed to update car", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update car"))
		}
		return
	}

	log.Info("success to update car", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"car": car,
	}))
}

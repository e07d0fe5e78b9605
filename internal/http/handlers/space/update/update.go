// Package update реализует HTTP-обработчик для изменения парковочного места.
//
// Обновляются только статические атрибуты: номер, этаж, адрес, часы работы.
// Счётчики ёмкости меняются исключительно через выдачу и освобождение закреплений.
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

// Handler обрабатывает запросы на изменение парковочных мест.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики парковочных мест
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс изменения места.
type Service interface {
	Update(ctx context.Context, id int, req models.DummySpace) (*models.ParkingSpace, error)
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
// @Summary Изменить парковочное место
// @Description Обновляет статические атрибуты места: номер, этаж, адрес и часы работы.
// @Tags Spaces
// @Accept  json
// @Produce  json
// @Param id path int true "ID места"
// @Param request body models.DummySpace true "Новые данные места"
// @Success 200 {object} map[string]any "Обновлённое место"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Место не найдено"
// @Failure 409 {object} response.ErrorResponse "Номер места уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /spaces/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.space.update"
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

	var req models.DummySpace
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

	sp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSpaceNotFound):
			log.Error("space not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking space not found"))
		default:
			if field, ok := models.IsDuplicate(err); ok {
				log.Error("duplicate space number", sl.Err(err))
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, response.Error("duplicate value for field "+field))
				return
			}
			log.Error("failed to update space", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update space"))
		}
		return
	}

	log.Info("success to update space", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"space": sp,
	}))
}

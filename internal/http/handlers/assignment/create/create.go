// Package create реализует HTTP-обработчик для выдачи парковочного места пользователю.
//
// Handler принимает JSON-запрос с данными закрепления, валидирует их,
// вызывает движок распределения и возвращает созданную запись в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/parking-allocator/internal/http/response"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/sl"
	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// Handler управляет HTTP-запросами на выдачу парковочных мест.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для выдачи места,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Движок распределения мест
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс движка распределения для выдачи места.
type Service interface {
	Create(ctx context.Context, req models.DummyAssignment) (*models.AssignmentEntry, error)
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
// @Summary Выдать парковочное место
// @Description Закрепляет парковочное место за пользователем, потребляя одну единицу ёмкости места.
// @Tags Assignments
// @Accept  json
// @Produce  json
// @Param request body models.DummyAssignment true "Данные нового закрепления"
// @Success 200 {object} map[string]any "Успешная выдача места"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь, автомобиль или место не найдены"
// @Failure 409 {object} response.ErrorResponse "Место занято, автомобиль уже закреплён или конфликт конкурентных выдач"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выдаче места"
// @Router /assignments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAssignment
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
	log.Info("all fields are validated")

	entry, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound),
			errors.Is(err, models.ErrCarNotFound),
			errors.Is(err, models.ErrSpaceNotFound):
			log.Error("referenced entity not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, models.ErrSpaceUnavailable):
			log.Error("space has no free capacity", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("parking space unavailable"))
		case errors.Is(err, models.ErrCarAlreadyAssigned):
			log.Error("car already assigned", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("car already assigned to another space"))
		case errors.Is(err, models.ErrConcurrencyConflict):
			log.Error("concurrent grants exhausted retries", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("concurrent update conflict, retry later"))
		default:
			log.Error("failed to create assignment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create assignment"))
		}
		return
	}

	log.Info("success to create assignment", slog.Int("id", entry.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"assignment": entry,
	}))
}

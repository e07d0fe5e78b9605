// Package carlist реализует HTTP-обработчик для получения закреплений автомобиля.
package carlist

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

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения закреплений автомобиля.
type Service interface {
	ListForCar(ctx context.Context, carID int) ([]*models.AssignmentEntry, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Закрепления автомобиля
// @Description Возвращает закрепления, привязанные к автомобилю.
// @Tags Assignments
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Success 200 {object} map[string]any "Список закреплений автомобиля"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{id}/assignments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.carlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	carID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.ListForCar(r.Context(), carID)
	if err != nil {
		if errors.Is(err, models.ErrCarNotFound) {
			log.Error("car not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("car not found"))
			return
		}
		log.Error("failed to list car assignments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list car assignments"))
		return
	}

	log.Info("list car assignments", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":  len(res),
		"assignments": res,
	}))
}

// Package list реализует HTTP-обработчик для получения списка парковочных мест.
//
// Параметр available фильтрует места по доступности: true — только свободные,
// false — только занятые, отсутствие параметра — все места.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// Service описывает интерфейс получения списка мест.
type Service interface {
	List(ctx context.Context, available *bool, limit, offset int) ([]*models.ParkingSpace, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список парковочных мест
// @Description Возвращает места с пагинацией и необязательным фильтром по доступности.
// @Tags Spaces
// @Produce  json
// @Param available query bool false "Фильтр по доступности"
// @Param limit query int false "Размер страницы (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список мест"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /spaces [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.space.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var available *bool
	if raw := r.URL.Query().Get("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error("failed to decode available filter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid available filter"))
			return
		}
		available = &v
	}

	res, err := h.service.List(r.Context(), available, limit, offset)
	if err != nil {
		log.Error("failed to list spaces", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list spaces"))
		return
	}

	log.Info("list spaces", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"spaces":     res,
	}))
}

// Package usercars реализует HTTP-обработчик для получения автомобилей пользователя.
package usercars

import (
	"context"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс получения автомобилей пользователя.
type Service interface {
	ListByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Автомобили пользователя
// @Description Возвращает автомобили пользователя. Для неизвестного пользователя возвращается пустой список.
// @Tags Cars
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Список автомобилей пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid}/cars [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.usercars"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerUID := chi.URLParam(r, "uid")

	res, err := h.service.ListByOwner(r.Context(), ownerUID)
	if err != nil {
		log.Error("failed to list user cars", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list user cars"))
		return
	}

	log.Info("list user cars", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"cars":       res,
	}))
}

// Package read реализует HTTP-обработчик для получения парковочного места по ID.
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

// Handler обрабатывает запросы на получение места по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики парковочных мест
}

// Service описывает интерфейс чтения места.
type Service interface {
	Read(ctx context.Context, id int) (*models.ParkingSpace, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить парковочное место
// @Description Возвращает парковочное место по ID, включая текущую ёмкость и доступность.
// @Tags Spaces
// @Produce  json
// @Param id path int true "ID места"
// @Success 200 {object} map[string]any "Данные места"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Место не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /spaces/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.space.read"

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

	sp, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrSpaceNotFound) {
			log.Error("space not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking space not found"))
			return
		}
		log.Error("failed to read space", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read space"))
		return
	}

	log.Info("success to read space", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"space": sp,
	}))
}

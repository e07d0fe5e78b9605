// Package parkingallocator предоставляет маршруты для основного приложения.
package parkingallocator

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	assignmentcarlist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/carlist"
	assignmentcreate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/create"
	assignmentlist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/list"
	assignmentread "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/read"
	assignmentremove "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/remove"
	assignmentupdate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/update"
	assignmentuserlist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/assignment/userlist"
	"github.com/magabrotheeeer/parking-allocator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/parking-allocator/internal/http/handlers/auth/register"
	carcreate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/create"
	carlist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/list"
	carread "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/read"
	carremove "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/remove"
	carupdate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/update"
	"github.com/magabrotheeeer/parking-allocator/internal/http/handlers/car/usercars"
	spacecreate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/space/create"
	spacelist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/space/list"
	spaceread "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/space/read"
	spaceremove "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/space/remove"
	spaceupdate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/space/update"
	userlist "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/parking-allocator/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/parking-allocator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/jwt"
	allocservice "github.com/magabrotheeeer/parking-allocator/internal/services/allocation"
	authservice "github.com/magabrotheeeer/parking-allocator/internal/services/auth"
	carservice "github.com/magabrotheeeer/parking-allocator/internal/services/car"
	spaceservice "github.com/magabrotheeeer/parking-allocator/internal/services/space"
	userservice "github.com/magabrotheeeer/parking-allocator/internal/services/user"

	"log/slog"
)

// RouteServices собирает сервисы, необходимые маршрутам приложения.
type RouteServices struct {
	Allocation *allocservice.AllocationService
	Space      *spaceservice.SpaceService
	Car        *carservice.CarService
	User       *userservice.UserService
	Auth       *authservice.AuthService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker, svc RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/assignments", assignmentcreate.New(logger, svc.Allocation).ServeHTTP)
			r.Get("/assignments", assignmentlist.New(logger, svc.Allocation).ServeHTTP)
			r.Get("/assignments/{id}", assignmentread.New(logger, svc.Allocation).ServeHTTP)
			r.Put("/assignments/{id}", assignmentupdate.New(logger, svc.Allocation).ServeHTTP)
			r.Delete("/assignments/{id}", assignmentremove.New(logger, svc.Allocation).ServeHTTP)

			r.Get("/spaces", spacelist.New(logger, svc.Space).ServeHTTP)
			r.Get("/spaces/{id}", spaceread.New(logger, svc.Space).ServeHTTP)

			r.Post("/cars", carcreate.New(logger, svc.Car).ServeHTTP)
			r.Get("/cars", carlist.New(logger, svc.Car).ServeHTTP)
			r.Get("/cars/{id}", carread.New(logger, svc.Car).ServeHTTP)
			r.Put("/cars/{id}", carupdate.New(logger, svc.Car).ServeHTTP)
			r.Delete("/cars/{id}", carremove.New(logger, svc.Car).ServeHTTP)
			r.Get("/cars/{id}/assignments", assignmentcarlist.New(logger, svc.Allocation).ServeHTTP)

			r.Get("/users/{uid}", userread.New(logger, svc.User).ServeHTTP)
			r.Put("/users/{uid}", userupdate.New(logger, svc.User).ServeHTTP)
			r.Get("/users/{uid}/cars", usercars.New(logger, svc.Car).ServeHTTP)
			r.Get("/users/{uid}/assignments", assignmentuserlist.New(logger, svc.Allocation).ServeHTTP)

			// Операции, доступные только администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/spaces", spacecreate.New(logger, svc.Space).ServeHTTP)
				r.Put("/spaces/{id}", spaceupdate.New(logger, svc.Space).ServeHTTP)
				r.Delete("/spaces/{id}", spaceremove.New(logger, svc.Space).ServeHTTP)
				r.Get("/users", userlist.New(logger, svc.User).ServeHTTP)
				r.Delete("/users/{uid}", userremove.New(logger, svc.User).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

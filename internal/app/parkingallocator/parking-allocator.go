package parkingallocator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/parking-allocator/internal/cache"
	"github.com/magabrotheeeer/parking-allocator/internal/config"
	"github.com/magabrotheeeer/parking-allocator/internal/lib/jwt"
	"github.com/magabrotheeeer/parking-allocator/internal/migrations"
	"github.com/magabrotheeeer/parking-allocator/internal/rabbitmq"
	allocservice "github.com/magabrotheeeer/parking-allocator/internal/services/allocation"
	authservice "github.com/magabrotheeeer/parking-allocator/internal/services/auth"
	carservice "github.com/magabrotheeeer/parking-allocator/internal/services/car"
	spaceservice "github.com/magabrotheeeer/parking-allocator/internal/services/space"
	userservice "github.com/magabrotheeeer/parking-allocator/internal/services/user"
	"github.com/magabrotheeeer/parking-allocator/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   interface{ Close() error }
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{
		{QueueName: "assignment.created", RoutingKey: "assignment.created"},
		{QueueName: "assignment.removed", RoutingKey: "assignment.removed"},
	})
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	maker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	allocationService := allocservice.NewAllocationService(db, cacheRedis, publisher, logger)
	spaceService := spaceservice.NewSpaceService(db, logger)
	carService := carservice.NewCarService(db, logger)
	userService := userservice.NewUserService(db, logger)
	authService := authservice.NewAuthService(db, maker, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, maker, RouteServices{
		Allocation: allocationService,
		Space:      spaceService,
		Car:        carService,
		User:       userService,
		Auth:       authService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.amqp.Close()
		_ = a.db.DB.Close()
		return err
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/internal/events"
	"github.com/GlebRadaev/bidcore/internal/gateway"
	"github.com/GlebRadaev/bidcore/internal/handlers"
	"github.com/GlebRadaev/bidcore/internal/kyc"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"github.com/GlebRadaev/bidcore/internal/repo"
	verifycache "github.com/GlebRadaev/bidcore/internal/repo/verify-cache"
	"github.com/GlebRadaev/bidcore/internal/service"
	"github.com/GlebRadaev/bidcore/internal/sweeper"
	"github.com/GlebRadaev/bidcore/pkg/clients"
	"github.com/GlebRadaev/bidcore/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg       *config.Config
	api       *handlers.Handlers
	srv       *service.Services
	repo      *repo.Repositories
	sweep     *sweeper.Service
	publisher *events.Publisher

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn, txManager)
	a.publisher = events.NewPublisher(newKafkaWriter(cfg))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	httpClient := clients.NewHTTPClient()

	a.srv = service.New(cfg, a.repo, txManager, service.Deps{
		KYC:       kyc.New(cfg, httpClient),
		Gateway:   gateway.New(cfg, httpClient),
		Cache:     verifycache.New(redisClient, cfg.VerifyCacheTTL),
		Publisher: a.publisher,
	})
	a.api = handlers.New(a.srv)
	a.sweep = sweeper.New(cfg, a.srv.AuctionService, a.srv.SettlementService)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startSweeper(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func newKafkaWriter(cfg *config.Config) events.KafkaWriter {
	if cfg.KafkaBrokers == "" {
		zap.L().Info("kafka brokers not configured, event publishing disabled")
		return nil
	}
	return events.NewWriter(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startSweeper(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sweep.Start(ctx)
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	if err := a.publisher.Close(); err != nil {
		zap.L().Warn("failed to close event publisher", zap.Error(err))
	}

	return appErr
}

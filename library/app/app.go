package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/catalog"
	"github.com/Astemirdum/library-management/library/internal/events"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/repository/memory"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

const shutdownTimeout = 5 * time.Second

type publisher interface {
	service.Publisher
	Close() error
}

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, db, err := newRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("repository", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	pub, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close", zap.Error(err))
		}
	}()

	svc := service.NewService(repo, log, service.WithPublisher(pub))
	h := handler.New(svc, catalog.NewClient(cfg.Catalog, log), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ", zap.String("addr", srv.Addr()))
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gCtx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newRepository(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.Repository, *sqlx.DB, error) {
	if cfg.UseMemory() {
		log.Info("using in-memory storage")
		return memory.NewRepository(), nil, nil
	}
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func newPublisher(cfg kafka.Config, log *zap.Logger) (publisher, error) {
	if !cfg.Enabled() {
		log.Info("kafka is not configured, loan events are dropped")
		return events.Nop{}, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	return events.NewPublisher(producer, cfg.Topic, log), nil
}

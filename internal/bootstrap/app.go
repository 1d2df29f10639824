package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mesto-api/internal/config"
	"mesto-api/internal/logging"
	mysqlClient "mesto-api/internal/platform/mysql"
	postgresClient "mesto-api/internal/platform/postgres"
	rabbitmqClient "mesto-api/internal/platform/rabbitmq"
	redisClient "mesto-api/internal/platform/redis"
	sqliteClient "mesto-api/internal/platform/sqlite"
	"mesto-api/internal/repository"
	"mesto-api/internal/worker"
)

// App owns every long-lived resource. Redis and the broker are optional and
// stay nil when disabled.
type App struct {
	Config         *config.Config
	Logger         logging.Logger
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	Publisher      *rabbitmqClient.EventPublisher
	ActivityWorker *worker.ActivityWorker

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, StartedAt: time.Now()}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = redisCli
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
		a.Publisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.EventsQueue)

		activityRepo := repository.NewActivityRepository(db)
		a.ActivityWorker = worker.NewActivityWorker(mqConn, activityRepo, cfg.RabbitMQ.EventsQueue, logger)
		if err := a.ActivityWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start activity worker failed: %w", err)
		}
	}

	return a, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return mysqlClient.New(ctx, cfg.MySQLDSN())
	case config.DriverPostgres:
		return postgresClient.New(ctx, cfg.PostgresDSN())
	case config.DriverSQLite:
		return sqliteClient.New(ctx, cfg.Database.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (a *App) Close() error {
	var errs []error
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

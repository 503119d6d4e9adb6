package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ragbridge/internal/config"
	"ragbridge/internal/logger"
	"ragbridge/internal/model"
	mysqlClient "ragbridge/internal/platform/mysql"
	rabbitmqClient "ragbridge/internal/platform/rabbitmq"
	redisClient "ragbridge/internal/platform/redis"
)

// ScrapeJobPublisher enqueues scrape jobs for the combine-files batch tool.
type ScrapeJobPublisher interface {
	Publish(ctx context.Context, job model.ScrapeJob) error
}

// App holds the shared values decorated onto every request context plus the
// platform clients behind them. Everything here is built once at startup
// and treated as read-only afterwards.
type App struct {
	Config          *config.Config
	Log             *logger.Logger
	DB              *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	ScrapePublisher ScrapeJobPublisher

	StartedAt time.Time
}

// New assembles the application state, fail-fast: any enabled backend that
// cannot be reached aborts startup rather than serving half-initialized.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		Log:       logger.Default(),
		StartedAt: time.Now(),
	}

	if cfg.MySQL.Enabled {
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		app.DB = db
	}

	if cfg.RateLimit.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.RAG.PublishEnabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn
		app.ScrapePublisher = rabbitmqClient.NewScrapePublisher(mqConn, cfg.RabbitMQ.ScrapeQueue)
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DBConfig struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	Path     string
}

func (c DBConfig) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", c.Driver)
	}
}

func retryPolicy(maxRetries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	if maxRetries < 1 {
		maxRetries = 1
	}
	return backoff.WithMaxRetries(b, uint64(maxRetries-1))
}

func ConnectGORMWithRetry(cfg DBConfig, maxRetries int) (*gorm.DB, error) {
	log := zap.L().Named("connection.db")

	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	attempt := 0
	op := func() error {
		attempt++
		opened, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			log.Warn("gorm open failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		sqlDB, err := opened.DB()
		if err != nil {
			return backoff.Permanent(err)
		}

		if err := sqlDB.Ping(); err != nil {
			log.Warn("db ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		if cfg.Driver == "sqlite" {
			// a single writer keeps sqlite transactions serialised
			sqlDB.SetMaxOpenConns(1)
		} else {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
		}

		db = opened
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(maxRetries)); err != nil {
		return nil, fmt.Errorf("database connection failed after %d attempts: %w", attempt, err)
	}

	log.Info("gorm connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	log := zap.L().Named("connection.redis")
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	attempt := 0
	op := func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(maxRetries)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	log.Info("connected to redis", zap.String("addr", addr))
	return rdb, nil
}

// ConnectKafkaWithRetry dials the broker until it answers and returns a
// writer that routes by message topic.
func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	log := zap.L().Named("connection.kafka")

	attempt := 0
	op := func() error {
		attempt++
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			log.Warn("kafka dial failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return conn.Close()
	}

	if err := backoff.Retry(op, retryPolicy(maxRetries)); err != nil {
		return nil, fmt.Errorf("failed to connect kafka: %w", err)
	}

	log.Info("connected to kafka", zap.String("broker", broker))
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}, nil
}

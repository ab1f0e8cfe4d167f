package app

import (
	"database/sql"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func dbConfig(cfg config.Config) connection.DBConfig {
	return connection.DBConfig{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		Port:     cfg.DB.Port,
		SSLMode:  cfg.DB.SSLMode,
		Path:     cfg.DB.Path,
	}
}

func openDatabase(cfg config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(dbConfig(cfg), cfg.ConnectMaxRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

// BuildApp connects the record store and the cache, migrates the schema and
// mounts every module on router. The returned func closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.DB.Driver))

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectMaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	if err := Migrate(gormDB); err != nil {
		cleanup()
		return nil, err
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

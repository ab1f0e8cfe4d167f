package main

import (
	"os"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/app"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/bootstrap"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	applogger "github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := applogger.Must(applogger.Config{Env: cfg.AppEnv, Level: cfg.Log.Level, File: cfg.Log.File})
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	cleanup, err := app.BuildApp(r, cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewZapAuditLogger(logger),
		logger,
	)
}

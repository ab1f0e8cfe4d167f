package main

import (
	"os"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/app"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	applogger "github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/logger"

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

	if err := app.RunWorker(cfg, logger); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/study-arena-go/internal/common/bootstrap"
	"github.com/park285/study-arena-go/internal/common/health"
	aapp "github.com/park285/study-arena-go/internal/studyarena/app"
	aconfig "github.com/park285/study-arena-go/internal/studyarena/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunBotEntrypoint(
		context.Background(),
		logger,
		"studyarena.log",
		aconfig.LoadFromEnv,
		func(cfg *aconfig.Config) aconfig.LogConfig { return cfg.Log },
		func(cfg *aconfig.Config) bool { return cfg.Telemetry.Enabled },
		aapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

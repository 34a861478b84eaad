package app

import (
	"context"
	"log/slog"

	"github.com/park285/study-arena-go/internal/common/bootstrap"
	"github.com/park285/study-arena-go/internal/common/telemetry"
	aconfig "github.com/park285/study-arena-go/internal/studyarena/config"
)

// Initialize 는 스터디 아레나 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *aconfig.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	tracerProvider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, err
	}
	cleanupTelemetry := func() {
		if shutdownErr := tracerProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("telemetry_shutdown_failed", "err", shutdownErr)
		}
	}

	msgProvider, err := newArenaMessageProvider()
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	contentClient, err := newArenaContentClient(cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	dataValkeyClient, cleanupDataValkey, err := newArenaDataValkey(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	stores := newArenaStores(dataValkeyClient, logger)

	db, cleanupDB, err := newArenaDB(ctx, cfg, logger)
	if err != nil {
		cleanupDataValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	repositories, err := newArenaRepositories(ctx, db)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	services := newArenaServices(repositories, stores, contentClient, msgProvider, logger)

	httpHandler := newArenaHTTPHandler(cfg, services, contentClient, msgProvider, logger)
	httpServer := newArenaHTTPServer(cfg, httpHandler)

	serverApp := newArenaServerApp(logger, httpServer)

	cleanup := func() {
		cleanupDB()
		cleanupDataValkey()
		cleanupTelemetry()
	}

	return serverApp, cleanup, nil
}

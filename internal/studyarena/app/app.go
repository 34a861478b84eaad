package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/park285/study-arena-go/internal/battle/channel"
	bredis "github.com/park285/study-arena-go/internal/battle/redis"
	brepo "github.com/park285/study-arena-go/internal/battle/repository"
	bsvc "github.com/park285/study-arena-go/internal/battle/service"
	"github.com/park285/study-arena-go/internal/common/bootstrap"
	"github.com/park285/study-arena-go/internal/common/dbutil"
	"github.com/park285/study-arena-go/internal/common/di"
	"github.com/park285/study-arena-go/internal/common/httpserver"
	"github.com/park285/study-arena-go/internal/common/messageprovider"
	rrepo "github.com/park285/study-arena-go/internal/review/repository"
	"github.com/park285/study-arena-go/internal/review/scheduler"
	reviewsvc "github.com/park285/study-arena-go/internal/review/service"
	srepo "github.com/park285/study-arena-go/internal/streak/repository"
	streaksvc "github.com/park285/study-arena-go/internal/streak/service"
	aassets "github.com/park285/study-arena-go/internal/studyarena/assets"
	aconfig "github.com/park285/study-arena-go/internal/studyarena/config"
	"github.com/park285/study-arena-go/internal/studyarena/content"
	ahttpapi "github.com/park285/study-arena-go/internal/studyarena/httpapi"
)

type arenaStores struct {
	stateStore    *bredis.StateStore
	presenceStore *bredis.PresenceStore
	roomLock      *bredis.RoomLock
	broadcaster   *channel.Broadcaster
}

func newArenaStores(client di.DataValkeyClient, logger *slog.Logger) *arenaStores {
	return &arenaStores{
		stateStore:    bredis.NewStateStore(client.Client, logger),
		presenceStore: bredis.NewPresenceStore(client.Client, logger),
		roomLock:      bredis.NewRoomLock(client.Client, logger),
		broadcaster:   channel.NewBroadcaster(client.Client, logger),
	}
}

type arenaRepositories struct {
	battle *brepo.Repository
	review *rrepo.Repository
	streak *srepo.Repository
}

func newArenaRepositories(ctx context.Context, db *gorm.DB) (*arenaRepositories, error) {
	battle := brepo.New(db)
	if err := battle.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("battle auto migrate failed: %w", err)
	}
	review := rrepo.New(db)
	if err := review.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("review auto migrate failed: %w", err)
	}
	streak := srepo.New(db)
	if err := streak.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("streak auto migrate failed: %w", err)
	}
	return &arenaRepositories{battle: battle, review: review, streak: streak}, nil
}

type arenaServices struct {
	rooms   *bsvc.RoomManager
	game    *bsvc.GameService
	reviews *reviewsvc.ReviewService
	streaks *streaksvc.Tracker
}

// streakNotifier: Tracker를 ReviewService의 StreakNotifier 인터페이스에 맞춘다.
type streakNotifier struct {
	tracker *streaksvc.Tracker
}

func (n *streakNotifier) Execute(ctx context.Context, userID string, timezone string) error {
	_, err := n.tracker.Execute(ctx, userID, timezone)
	return err
}

func newArenaServices(
	repos *arenaRepositories,
	stores *arenaStores,
	contentClient *content.Client,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *arenaServices {
	botNamer := newBotNamer(msgProvider)

	rooms := bsvc.NewRoomManager(
		repos.battle,
		stores.stateStore,
		stores.presenceStore,
		stores.roomLock,
		stores.broadcaster,
		botNamer,
		logger,
	)
	game := bsvc.NewGameService(
		repos.battle,
		stores.stateStore,
		stores.presenceStore,
		stores.roomLock,
		stores.broadcaster,
		contentClient,
		logger,
	)

	streaks := streaksvc.New(repos.streak, logger)
	reviews := reviewsvc.New(
		repos.review,
		scheduler.New(scheduler.DefaultConfig()),
		&streakNotifier{tracker: streaks},
		logger,
	)

	return &arenaServices{rooms: rooms, game: game, reviews: reviews, streaks: streaks}
}

func newArenaDataValkey(
	ctx context.Context,
	cfg *aconfig.Config,
	logger *slog.Logger,
) (di.DataValkeyClient, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingDataValkeyClient(ctx, cfg.Redis, logger)
	if err != nil {
		return di.DataValkeyClient{}, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	return client, closeFn, nil
}

func newArenaMessageProvider() (*messageprovider.Provider, error) {
	provider, err := messageprovider.NewFromYAMLAtPath(aassets.ArenaMessagesYAML, "studyarena")
	if err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}
	return provider, nil
}

func newArenaContentClient(cfg *aconfig.Config, logger *slog.Logger) (*content.Client, error) {
	client, err := content.New(cfg.Content, logger)
	if err != nil {
		return nil, fmt.Errorf("create content client failed: %w", err)
	}
	return client, nil
}

func newArenaDB(
	ctx context.Context,
	cfg *aconfig.Config,
	logger *slog.Logger,
) (*gorm.DB, func(), error) {
	// 스키마 마이그레이션 경합 대비 백오프 재시도
	db, sqlDB, err := dbutil.OpenWithRetry(
		ctx,
		func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
			return openPostgres(ctx, cfg.Postgres)
		},
		dbutil.DefaultRetryConfig(),
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres failed: %w", err)
	}

	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func newArenaHTTPHandler(
	cfg *aconfig.Config,
	services *arenaServices,
	contentClient *content.Client,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	ahttpapi.Register(mux, ahttpapi.Deps{
		Rooms:   services.rooms,
		Game:    services.game,
		Reviews: services.reviews,
		Streaks: services.streaks,
		Content: contentClient,
	}, msgProvider, logger)

	// 추적 활성화 시 모든 요청에 서버 span 생성
	if cfg.Telemetry.Enabled {
		return otelhttp.NewHandler(mux, "studyarena-http")
	}
	return mux
}

func newArenaHTTPServer(cfg *aconfig.Config, handler http.Handler) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, handler, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func newArenaServerApp(logger *slog.Logger, server *http.Server) *bootstrap.ServerApp {
	return bootstrap.NewServerApp(
		"studyarena",
		logger,
		server,
		10*time.Second,
	)
}

func openPostgres(ctx context.Context, cfg aconfig.PostgresConfig) (*gorm.DB, *sql.DB, error) {
	// UDS 경로가 있으면 소켓 디렉터리를 host로 사용한다 (TCP 설정보다 우선)
	host := cfg.Host
	if strings.TrimSpace(cfg.SocketPath) != "" {
		host = cfg.SocketPath
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	// TranslateError: 유니크 제약 위반을 gorm.ErrDuplicatedKey로 변환
	// (중복 답변/슬롯 충돌 감지가 이 변환에 의존한다)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}

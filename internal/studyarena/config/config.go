package config

import (
	"fmt"
	"time"

	commonconfig "github.com/park285/study-arena-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 (포트 등) alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 (Timeouts, Limits 등) alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Valkey 연결 설정 (라이브 상태/락/이벤트 채널용) alias
type RedisConfig = commonconfig.RedisConfig

// LogConfig: 로깅 설정 (레벨, 포맷 등) alias
type LogConfig = commonconfig.LogConfig

// PostgresConfig: PostgreSQL 데이터베이스 설정
type PostgresConfig struct {
	Host       string
	Port       int
	SocketPath string // UDS 경로 (비어있으면 TCP 사용)
	Name       string
	User       string
	Password   string
	SSLMode    string
}

// ContentConfig: 학습 콘텐츠 서비스(문제/스터디 세트) HTTP 통신 설정
type ContentConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	HTTP2Enabled   bool
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Content      ContentConfig
	Log          LogConfig
	Telemetry    commonconfig.TelemetryConfig // OpenTelemetry 분산 추적
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	redisCfg, err := readRedisConfig()
	if err != nil {
		return nil, err
	}
	postgres, err := readPostgresConfig()
	if err != nil {
		return nil, err
	}
	content, err := readContentConfig()
	if err != nil {
		return nil, err
	}
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv("studyarena")
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redisCfg,
		Postgres:     postgres,
		Content:      content,
		Log:          log,
		Telemetry:    telemetry,
	}, nil
}

func readRedisConfig() (RedisConfig, error) {
	cfg, err := commonconfig.ReadRedisConfigFromEnv(
		[]string{"CACHE_HOST", "REDIS_HOST"},
		[]string{"CACHE_PORT", "REDIS_PORT"},
		[]string{"CACHE_PASSWORD", "REDIS_PASSWORD"},
		"localhost",
		6379,
		"",
	)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis config failed: %w", err)
	}
	return cfg, nil
}

func readPostgresConfig() (PostgresConfig, error) {
	port, err := commonconfig.IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:       commonconfig.StringFromEnv("DB_HOST", "localhost"),
		Port:       port,
		SocketPath: commonconfig.StringFromEnv("DB_SOCKET_PATH", ""),
		Name:       commonconfig.StringFromEnv("DB_NAME", "studyarena"),
		User:       commonconfig.StringFromEnv("DB_USER", "studyarena_app"),
		Password:   commonconfig.StringFromEnv("DB_PASSWORD", ""),
		SSLMode:    commonconfig.StringFromEnv("DB_SSLMODE", "disable"),
	}, nil
}

func readContentConfig() (ContentConfig, error) {
	timeout, err := commonconfig.DurationSecondsFromEnv(
		"CONTENT_TIMEOUT_SECONDS",
		DefaultContentTimeoutSeconds,
	)
	if err != nil {
		return ContentConfig{}, fmt.Errorf("read CONTENT_TIMEOUT_SECONDS failed: %w", err)
	}
	connectTimeout, err := commonconfig.DurationSecondsFromEnv(
		"CONTENT_CONNECT_TIMEOUT_SECONDS",
		DefaultContentConnectTimeoutSeconds,
	)
	if err != nil {
		return ContentConfig{}, fmt.Errorf("read CONTENT_CONNECT_TIMEOUT_SECONDS failed: %w", err)
	}
	http2Enabled, err := commonconfig.BoolFromEnv("CONTENT_HTTP2_ENABLED", false)
	if err != nil {
		return ContentConfig{}, fmt.Errorf("read CONTENT_HTTP2_ENABLED failed: %w", err)
	}

	return ContentConfig{
		BaseURL: commonconfig.StringFromEnvFirstNonEmpty(
			[]string{"CONTENT_BASE_URL", "STUDY_CONTENT_BASE_URL"},
			DefaultContentBaseURL,
		),
		APIKey:         commonconfig.StringFromEnvFirstNonEmpty([]string{"CONTENT_API_KEY", "HTTP_API_KEY"}, ""),
		Timeout:        timeout,
		ConnectTimeout: connectTimeout,
		HTTP2Enabled:   http2Enabled,
	}, nil
}

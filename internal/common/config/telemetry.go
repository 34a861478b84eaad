package config

import "fmt"

// TelemetryConfig: OpenTelemetry 분산 추적 설정입니다.
type TelemetryConfig struct {
	Enabled        bool    // 추적 활성화 여부
	ServiceName    string  // 서비스 이름 (resource 속성)
	ServiceVersion string  // 서비스 버전
	Environment    string  // 배포 환경 (production, staging 등)
	OTLPEndpoint   string  // OTLP gRPC exporter 엔드포인트
	OTLPInsecure   bool    // TLS 없이 연결할지 여부
	SampleRate     float64 // 루트 샘플링 비율 (0.0 ~ 1.0)
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽어옵니다.
// defaultServiceName은 OTEL_SERVICE_NAME 미설정 시 사용됩니다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}

	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}

	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:        enabled,
		ServiceName:    StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
		ServiceVersion: StringFromEnv("OTEL_SERVICE_VERSION", "1.0.0"),
		Environment:    StringFromEnv("OTEL_ENVIRONMENT", "production"),
		OTLPEndpoint:   StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
		OTLPInsecure:   insecure,
		SampleRate:     sampleRate,
	}, nil
}

package config

// 서버/콘텐츠 서비스 기본값.
const (
	// DefaultServerPort: 스터디 아레나 HTTP 서버 기본 포트
	DefaultServerPort = 40358

	// DefaultContentBaseURL: 학습 콘텐츠 서비스 기본 주소
	DefaultContentBaseURL = "http://localhost:40520"
	// DefaultContentTimeoutSeconds: 콘텐츠 서비스 요청 타임아웃 기본값 (초)
	DefaultContentTimeoutSeconds = 10
	// DefaultContentConnectTimeoutSeconds: 콘텐츠 서비스 연결 타임아웃 기본값 (초)
	DefaultContentConnectTimeoutSeconds = 5

	// DefaultTimezone: 클라이언트가 타임존을 보내지 않을 때 사용하는 IANA 타임존
	DefaultTimezone = "Asia/Seoul"
)

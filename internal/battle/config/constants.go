// Package config 는 배틀 게임의 고정 상수를 정의한다.
package config

// RedisKeyPrefix 는 Redis 키 상수 목록이다.
const (
	RedisKeyPrefix        = "battle"
	RedisKeyStatePrefix   = RedisKeyPrefix + ":state"
	RedisKeyPresencePre   = RedisKeyPrefix + ":presence"
	RedisKeyChannelPrefix = RedisKeyPrefix + ":channel"
	RedisKeyLockPrefix    = RedisKeyPrefix + ":lock"
)

// RedisStateTTLSeconds 는 Redis TTL 상수 목록이다.
const (
	RedisStateTTLSeconds    = 6 * 60 * 60
	RedisPresenceTTLSeconds = 6 * 60 * 60
	RedisLockTTLSeconds     = 10
)

// MaxSlots 는 방 구성 상수 목록이다.
const (
	MaxSlots                = 8
	MinQuestionCount        = 1
	MaxQuestionCount        = 50
	MinTimeLimitSeconds     = 5
	MaxTimeLimitSeconds     = 120
	DefaultTimeLimitSeconds = 30
	CountdownSeconds        = 5
)

// PublicIDBytes 는 초대용 공개 ID의 엔트로피 바이트 수다.
const (
	PublicIDBytes = 8
)

// Package redis 는 배틀 게임의 Redis/Valkey 키 생성 함수들을 정의한다.
package redis

import (
	"strconv"

	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	"github.com/park285/study-arena-go/internal/common/valkeyx"
)

// stateKey 는 실시간 게임 상태 저장용 키를 생성한다.
// 형식: battle:state:{roomID}
func stateKey(roomID string) string {
	return valkeyx.BuildKey(bconfig.RedisKeyStatePrefix, roomID)
}

// presenceKey 는 방 접속자 집합 저장용 키를 생성한다.
// 형식: battle:presence:{roomID}
func presenceKey(roomID uint64) string {
	return valkeyx.BuildKey(bconfig.RedisKeyPresencePre, strconv.FormatUint(roomID, 10))
}

// ChannelName 은 방 이벤트 브로드캐스트용 Pub/Sub 채널 이름을 생성한다.
// 형식: battle:channel:{roomID}
func ChannelName(roomID uint64) string {
	return valkeyx.BuildKey(bconfig.RedisKeyChannelPrefix, strconv.FormatUint(roomID, 10))
}

// slotLockKey 는 슬롯 구성 변경 직렬화용 락 키를 생성한다.
// 형식: battle:lock:slots:{roomID}
func slotLockKey(roomID uint64) string {
	return valkeyx.BuildKeySuffix(bconfig.RedisKeyLockPrefix, "slots", strconv.FormatUint(roomID, 10))
}

// transitionLockKey 는 상태 전이 직렬화용 락 키를 생성한다.
// 형식: battle:lock:transition:{roomID}
func transitionLockKey(roomID uint64) string {
	return valkeyx.BuildKeySuffix(bconfig.RedisKeyLockPrefix, "transition", strconv.FormatUint(roomID, 10))
}

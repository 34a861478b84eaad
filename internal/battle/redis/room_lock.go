package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/lockutil"
)

// 락 획득 재시도 설정
const (
	lockRetryAttempts = 5
	lockRetryBaseWait = 20 * time.Millisecond
)

// RoomLock: 방 단위 변경 작업을 직렬화하는 분산 락 매니저.
// SET NX 기반 공유 락으로 슬롯 변경과 상태 전이의 동시 수행을 막는다.
type RoomLock struct {
	client valkey.Client
	logger *slog.Logger
}

// NewRoomLock: 새로운 RoomLock 인스턴스를 생성합니다.
func NewRoomLock(client valkey.Client, logger *slog.Logger) *RoomLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomLock{client: client, logger: logger}
}

// WithSlotLock: 슬롯 구성 락을 획득한 상태에서 작업을 수행한다.
func (l *RoomLock) WithSlotLock(ctx context.Context, roomID uint64, block func(ctx context.Context) error) error {
	return l.withLock(ctx, slotLockKey(roomID), roomID, block)
}

// WithTransitionLock: 상태 전이 락을 획득한 상태에서 작업을 수행한다.
func (l *RoomLock) WithTransitionLock(ctx context.Context, roomID uint64, block func(ctx context.Context) error) error {
	return l.withLock(ctx, transitionLockKey(roomID), roomID, block)
}

// withLock 락 획득을 backoff로 재시도한다.
// 경합 상황에서 즉시 실패 대신 짧은 간격으로 재시도하여 성공률을 높인다.
// 같은 요청 흐름 안에서는 Scope로 재진입을 허용한다.
func (l *RoomLock) withLock(ctx context.Context, lockKey string, roomID uint64, block func(ctx context.Context) error) error {
	scope, ok := lockutil.ScopeFromContext(ctx)
	if !ok {
		scope = lockutil.NewScope()
		ctx = lockutil.WithScope(ctx, scope)
	}
	if scope.IncrementIfHeld(lockKey) {
		defer scope.ReleaseIfLast(lockKey)
		return block(ctx)
	}

	acquired := false
	for attempt := 0; attempt < lockRetryAttempts; attempt++ {
		ok, err := lockutil.TryAcquireSharedLock(ctx, l.client, lockKey, bconfig.RedisLockTTLSeconds)
		if err != nil {
			return err
		}
		if ok {
			acquired = true
			break
		}

		wait := lockRetryBaseWait << attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if !acquired {
		l.logger.Warn("room_lock_contended", "room_id", roomID, "key", lockKey)
		return cerrors.LockError{Key: lockKey}
	}

	scope.Hold(lockKey)
	defer func() {
		if !scope.ReleaseIfLast(lockKey) {
			return
		}
		if err := lockutil.ReleaseSharedLock(ctx, l.client, lockKey); err != nil {
			l.logger.Warn("room_lock_release_failed", "room_id", roomID, "key", lockKey, "err", err)
		}
	}()

	return block(ctx)
}

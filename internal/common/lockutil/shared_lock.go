package lockutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/study-arena-go/internal/common/valkeyx"
)

// TryAcquireSharedLock: 공유 락을 획득합니다. (SET NX)
func TryAcquireSharedLock(ctx context.Context, client valkey.Client, lockKey string, ttlSeconds int64) (bool, error) {
	lockKey = strings.TrimSpace(lockKey)
	if lockKey == "" {
		return false, fmt.Errorf("lock key is empty")
	}
	if ttlSeconds <= 0 {
		return false, fmt.Errorf("invalid ttlSeconds: %d", ttlSeconds)
	}

	cmd := client.B().Set().Key(lockKey).Value("1").Nx().Ex(TTLDurationFromSeconds(ttlSeconds)).Build()
	err := client.Do(ctx, cmd).Error()
	if err != nil {
		if valkeyx.IsNil(err) {
			return false, nil
		}
		return false, valkeyx.WrapRedisError("shared_lock_acquire", err)
	}
	return true, nil
}

// ReleaseSharedLock: 공유 락을 해제합니다. (DEL)
func ReleaseSharedLock(ctx context.Context, client valkey.Client, lockKey string) error {
	lockKey = strings.TrimSpace(lockKey)
	if lockKey == "" {
		return fmt.Errorf("lock key is empty")
	}
	cmd := client.B().Del().Key(lockKey).Build()
	if err := client.Do(ctx, cmd).Error(); err != nil {
		return valkeyx.WrapRedisError("shared_lock_release", err)
	}
	return nil
}

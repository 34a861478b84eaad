package redis

import (
	"context"
	"errors"
	"testing"

	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/lockutil"
	"github.com/park285/study-arena-go/internal/common/testhelper"
)

func TestRoomLock_SerializesSlotMutations(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	lock := NewRoomLock(client, testLogger())
	ctx := context.Background()

	ran := false
	err := lock.WithSlotLock(ctx, 7, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("with lock failed: %v", err)
	}
	if !ran {
		t.Fatal("block did not run")
	}

	// 블록 종료 후 락이 해제되어 재획득 가능해야 한다
	err = lock.WithSlotLock(ctx, 7, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
}

func TestRoomLock_ContendedLockFails(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	lock := NewRoomLock(client, testLogger())
	ctx := context.Background()

	// 외부에서 락을 선점해 경합 상황을 만든다
	ok, err := lockutil.TryAcquireSharedLock(ctx, client, slotLockKey(7), 60)
	if err != nil || !ok {
		t.Fatalf("preacquire failed: %v %v", ok, err)
	}

	err = lock.WithSlotLock(ctx, 7, func(ctx context.Context) error {
		t.Fatal("block must not run while lock is held elsewhere")
		return nil
	})
	var lockErr cerrors.LockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockError, got %v", err)
	}
}

func TestRoomLock_SlotAndTransitionLocksAreIndependent(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	lock := NewRoomLock(client, testLogger())
	ctx := context.Background()

	err := lock.WithSlotLock(ctx, 7, func(ctx context.Context) error {
		// 슬롯 락을 쥔 채로도 전이 락은 획득 가능해야 한다
		return lock.WithTransitionLock(ctx, 7, func(ctx context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("independent locks must not contend: %v", err)
	}
}

func TestRoomLock_ReentrantWithinSameFlow(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	lock := NewRoomLock(client, testLogger())
	ctx := context.Background()

	ran := false
	err := lock.WithSlotLock(ctx, 7, func(ctx context.Context) error {
		// 같은 흐름에서는 같은 락을 다시 잡아도 블로킹되지 않는다
		return lock.WithSlotLock(ctx, 7, func(ctx context.Context) error {
			ran = true
			return nil
		})
	})
	if err != nil {
		t.Fatalf("reentrant lock failed: %v", err)
	}
	if !ran {
		t.Fatal("nested block did not run")
	}

	// 바깥 블록 종료 후에는 실제 락도 해제되어야 한다
	err = lock.WithSlotLock(ctx, 7, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("lock not released after reentrant use: %v", err)
	}
}

func TestRoomLock_ErrorPropagatesAndReleases(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	lock := NewRoomLock(client, testLogger())
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := lock.WithSlotLock(ctx, 7, func(ctx context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("block error must propagate, got %v", err)
	}

	// 에러로 끝나도 락은 해제된다
	err = lock.WithSlotLock(ctx, 7, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("lock leaked after error: %v", err)
	}
}

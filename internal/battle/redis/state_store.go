package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	"github.com/park285/study-arena-go/internal/battle/model"
	"github.com/park285/study-arena-go/internal/common/gamesession"
)

// StateStore: 진행 중인 게임의 실시간 상태를 Redis에 저장하고 관리하는 저장소.
// 공통 gamesession.Store를 내부적으로 사용하여 핵심 CRUD 로직을 위임합니다.
type StateStore struct {
	base *gamesession.Store[model.LiveState]
}

// NewStateStore: 새로운 StateStore 인스턴스를 생성합니다.
func NewStateStore(client valkey.Client, logger *slog.Logger) *StateStore {
	return &StateStore{
		base: gamesession.NewStore[model.LiveState](client, logger, gamesession.Config{
			KeyFunc: stateKey,
			TTL:     time.Duration(bconfig.RedisStateTTLSeconds) * time.Second,
		}),
	}
}

func roomField(roomID uint64) string {
	return strconv.FormatUint(roomID, 10)
}

// Save: 실시간 상태를 저장합니다. (TTL 설정됨)
func (s *StateStore) Save(ctx context.Context, state *model.LiveState) error {
	if err := s.base.Save(ctx, roomField(state.RoomID), *state); err != nil {
		return fmt.Errorf("save live state: %w", err)
	}
	return nil
}

// Load: 방의 실시간 상태를 조회합니다. 없으면 nil을 반환합니다.
// 역직렬화에 성공했더라도 손상된 상태는 버리고 nil을 반환합니다.
func (s *StateStore) Load(ctx context.Context, roomID uint64) (*model.LiveState, error) {
	state, err := s.base.Load(ctx, roomField(roomID))
	if err != nil {
		return nil, fmt.Errorf("load live state: %w", err)
	}
	if state == nil {
		return nil, nil
	}
	if !state.IsStateValid() {
		s.base.Logger().Warn("live_state_invalid_discarded", "room_id", roomID)
		if err := s.base.Delete(ctx, roomField(roomID)); err != nil {
			s.base.Logger().Warn("live_state_cleanup_failed", "room_id", roomID, "err", err)
		}
		return nil, nil
	}
	return state, nil
}

// Delete: 방의 실시간 상태를 삭제합니다. (게임 종료/방 정리 시)
func (s *StateStore) Delete(ctx context.Context, roomID uint64) error {
	if err := s.base.Delete(ctx, roomField(roomID)); err != nil {
		return fmt.Errorf("delete live state: %w", err)
	}
	return nil
}

// Exists: 방의 실시간 상태가 존재하는지 확인합니다.
func (s *StateStore) Exists(ctx context.Context, roomID uint64) (bool, error) {
	exists, err := s.base.Exists(ctx, roomField(roomID))
	if err != nil {
		return false, fmt.Errorf("live state exists: %w", err)
	}
	return exists, nil
}

// RefreshTTL: 진행 중인 게임 상태의 TTL을 연장합니다.
func (s *StateStore) RefreshTTL(ctx context.Context, roomID uint64) (bool, error) {
	ok, err := s.base.RefreshTTL(ctx, roomField(roomID))
	if err != nil {
		return false, fmt.Errorf("refresh live state ttl: %w", err)
	}
	return ok, nil
}

package redis

import (
	"context"
	"log/slog"
	"strings"

	"github.com/valkey-io/valkey-go"

	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// PresenceStore: 방에 현재 접속해 있는 사용자 집합을 관리하는 저장소.
// 슬롯 점유와는 별개로, 화면을 보고 있는 사용자(관전 포함)를 추적한다.
type PresenceStore struct {
	client valkey.Client
	logger *slog.Logger
}

// NewPresenceStore: 새로운 PresenceStore 인스턴스를 생성합니다.
func NewPresenceStore(client valkey.Client, logger *slog.Logger) *PresenceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresenceStore{client: client, logger: logger}
}

// Join: 사용자를 방 접속자 집합에 추가한다. 새로 추가되었으면 true를 반환한다.
func (s *PresenceStore) Join(ctx context.Context, roomID uint64, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, cerrors.ValidationError{Field: "userId", Message: "empty"}
	}

	key := presenceKey(roomID)
	addCmd := s.client.B().Sadd().Key(key).Member(userID).Build()
	added, err := s.client.Do(ctx, addCmd).AsInt64()
	if err != nil {
		return false, cerrors.RedisError{Operation: "presence_join", Err: err}
	}

	expireCmd := s.client.B().Expire().Key(key).Seconds(bconfig.RedisPresenceTTLSeconds).Build()
	if err := s.client.Do(ctx, expireCmd).Error(); err != nil {
		s.logger.Warn("presence_expire_failed", "room_id", roomID, "err", err)
	}

	s.logger.Debug("presence_joined", "room_id", roomID, "user_id", userID, "is_new", added > 0)
	return added > 0, nil
}

// Leave: 사용자를 방 접속자 집합에서 제거한다.
func (s *PresenceStore) Leave(ctx context.Context, roomID uint64, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}

	cmd := s.client.B().Srem().Key(presenceKey(roomID)).Member(userID).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return cerrors.RedisError{Operation: "presence_leave", Err: err}
	}
	s.logger.Debug("presence_left", "room_id", roomID, "user_id", userID)
	return nil
}

// Members: 방 접속자 목록을 조회한다.
func (s *PresenceStore) Members(ctx context.Context, roomID uint64) ([]string, error) {
	cmd := s.client.B().Smembers().Key(presenceKey(roomID)).Build()
	members, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, cerrors.RedisError{Operation: "presence_members", Err: err}
	}
	return members, nil
}

// Count: 방 접속자 수를 조회한다.
func (s *PresenceStore) Count(ctx context.Context, roomID uint64) (int64, error) {
	cmd := s.client.B().Scard().Key(presenceKey(roomID)).Build()
	n, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, cerrors.RedisError{Operation: "presence_count", Err: err}
	}
	return n, nil
}

// Clear: 방 정리 시 접속자 집합을 삭제한다.
func (s *PresenceStore) Clear(ctx context.Context, roomID uint64) error {
	cmd := s.client.B().Del().Key(presenceKey(roomID)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return cerrors.RedisError{Operation: "presence_clear", Err: err}
	}
	return nil
}

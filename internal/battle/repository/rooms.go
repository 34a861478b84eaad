package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/park285/study-arena-go/internal/battle/model"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// CreateRoom: 새 방을 저장하고 발급된 ID가 채워진 방을 반환한다.
func (r *Repository) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	row := BattleRoomRow{
		PublicID:         room.PublicID,
		HostUserID:       room.HostUserID,
		StudySetID:       room.StudySetID,
		Name:             room.Name,
		Visibility:       string(room.Visibility),
		TimeLimitSeconds: room.TimeLimitSeconds,
		QuestionCount:    room.QuestionCount,
		Status:           string(room.Status),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Room{}, cerrors.ConflictError{Resource: "room", Key: room.PublicID}
		}
		return model.Room{}, cerrors.DatabaseError{Operation: "room_create", Err: err}
	}
	return row.toModel(), nil
}

// FindRoomByID: 방을 내부 ID로 조회한다.
func (r *Repository) FindRoomByID(ctx context.Context, roomID uint64) (model.Room, error) {
	var row BattleRoomRow
	err := r.db.WithContext(ctx).
		Where("id = ?", roomID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Room{}, cerrors.NotFoundError{Resource: "room", ID: strconv.FormatUint(roomID, 10)}
		}
		return model.Room{}, cerrors.DatabaseError{Operation: "room_find", Err: err}
	}
	return row.toModel(), nil
}

// FindRoomByPublicID: 초대용 공개 ID로 방을 조회한다.
func (r *Repository) FindRoomByPublicID(ctx context.Context, publicID string) (model.Room, error) {
	var row BattleRoomRow
	err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Room{}, cerrors.NotFoundError{Resource: "room", ID: publicID}
		}
		return model.Room{}, cerrors.DatabaseError{Operation: "room_find_public", Err: err}
	}
	return row.toModel(), nil
}

// ListOpenRooms: 입장 가능한 공개 대기방 목록을 조회한다. (최신 생성 순)
func (r *Repository) ListOpenRooms(ctx context.Context, limit int) ([]model.Room, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []BattleRoomRow
	err := r.db.WithContext(ctx).
		Where("visibility = ? AND status = ?", string(model.VisibilityPublic), string(model.RoomStatusWaiting)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "room_list_open", Err: err}
	}

	rooms := make([]model.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toModel())
	}
	return rooms, nil
}

// TransitionRoomStatus: 방 상태를 조건부로 전이한다.
// WHERE status = from 조건이 걸린 단일 UPDATE이므로 동시 전이 중 하나만 성공한다.
// 조건 불일치(이미 다른 상태)는 InvalidTransitionError로 보고한다.
func (r *Repository) TransitionRoomStatus(ctx context.Context, roomID uint64, from, to model.RoomStatus) error {
	result := r.db.WithContext(ctx).
		Model(&BattleRoomRow{}).
		Where("id = ? AND status = ?", roomID, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return cerrors.DatabaseError{Operation: "room_transition", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		// 방이 없거나 기대한 출발 상태가 아님
		current, err := r.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		return cerrors.InvalidTransitionError{From: string(current.Status), To: string(to)}
	}
	return nil
}

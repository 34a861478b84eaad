package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/park285/study-arena-go/internal/battle/model"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// CreateSlots: 방 생성 직후의 슬롯 레이아웃을 저장한다.
// (room_id, slot_index) 유니크 제약으로 같은 인덱스의 이중 생성은 거부된다.
func (r *Repository) CreateSlots(ctx context.Context, roomID uint64, slots []model.Slot) ([]model.Slot, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	rows := slotRows(roomID, slots)
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, cerrors.ConflictError{Resource: "slot", Key: strconv.FormatUint(roomID, 10)}
		}
		return nil, cerrors.DatabaseError{Operation: "slots_create", Err: err}
	}

	created := make([]model.Slot, 0, len(rows))
	for _, row := range rows {
		created = append(created, row.toModel())
	}
	return created, nil
}

// FindSlotsByRoom: 방의 전체 슬롯을 인덱스 순으로 조회한다.
func (r *Repository) FindSlotsByRoom(ctx context.Context, roomID uint64) ([]model.Slot, error) {
	var rows []BattleSlotRow
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("slot_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "slots_find", Err: err}
	}

	slots := make([]model.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toModel())
	}
	return slots, nil
}

// FindSlotByID: 슬롯을 ID로 조회한다. 다른 방의 슬롯은 NotFound로 처리한다.
func (r *Repository) FindSlotByID(ctx context.Context, roomID uint64, slotID uint64) (model.Slot, error) {
	var row BattleSlotRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND room_id = ?", slotID, roomID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Slot{}, cerrors.NotFoundError{Resource: "slot", ID: strconv.FormatUint(slotID, 10)}
		}
		return model.Slot{}, cerrors.DatabaseError{Operation: "slot_find", Err: err}
	}
	return row.toModel(), nil
}

// FindSlotByUser: 방에서 사용자가 점유 중인 슬롯을 조회한다.
func (r *Repository) FindSlotByUser(ctx context.Context, roomID uint64, userID string) (model.Slot, error) {
	var row BattleSlotRow
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND slot_type = ? AND user_id = ?", roomID, string(model.SlotTypePlayer), userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Slot{}, cerrors.NotFoundError{Resource: "slot", ID: userID}
		}
		return model.Slot{}, cerrors.DatabaseError{Operation: "slot_find_user", Err: err}
	}
	return row.toModel(), nil
}

// UpdateSlotOccupancy: 슬롯의 점유 상태를 단일 UPDATE로 갱신한다.
func (r *Repository) UpdateSlotOccupancy(ctx context.Context, slot model.Slot) error {
	result := r.db.WithContext(ctx).
		Model(&BattleSlotRow{}).
		Where("id = ? AND room_id = ?", slot.ID, slot.RoomID).
		Updates(map[string]any{
			"slot_type": string(slot.SlotType),
			"user_id":   slot.UserID,
			"bot_name":  slot.BotName,
		})
	if result.Error != nil {
		return cerrors.DatabaseError{Operation: "slot_update", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFoundError{Resource: "slot", ID: strconv.FormatUint(slot.ID, 10)}
	}
	return nil
}
